package repositories

import "flagship/internal/models"

// FlagRepository defines the interface for flag data access. Every lookup is
// scoped to a project ID, so a flag can never be read or mutated through
// another project's route.
type FlagRepository interface {
	Create(flag *models.Flag) error
	GetAllForProject(projectID string) ([]models.Flag, error)
	GetByID(id string, projectID string) (*models.Flag, error)
	GetByKey(key string, projectID string) (*models.Flag, error)
	Update(flag *models.Flag) error
	Delete(id string, projectID string) error
}
