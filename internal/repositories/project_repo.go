package repositories

import "flagship/internal/models"

// ProjectRepository defines the interface for project data access. Projects
// support create and read only; there are no update/delete operations.
type ProjectRepository interface {
	Create(project *models.Project) error
	GetAllForOwner(ownerID string) ([]models.Project, error)
	GetByID(id string) (*models.Project, error)
}
