package repositories

import (
	"fmt"

	"flagship/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFlagRepository is a GORM implementation of FlagRepository.
type GORMFlagRepository struct {
	db *gorm.DB
}

// NewGORMFlagRepository creates a new instance of GORMFlagRepository.
func NewGORMFlagRepository(db *gorm.DB) *GORMFlagRepository {
	return &GORMFlagRepository{
		db: db,
	}
}

// Create creates a new flag in the database. A duplicate (key, project) pair
// surfaces as gorm.ErrDuplicatedKey from the composite unique index.
func (r *GORMFlagRepository) Create(flag *models.Flag) error {
	if flag.ID == "" {
		flag.ID = uuid.New().String()
	}
	if err := r.db.Create(flag).Error; err != nil {
		return fmt.Errorf("failed to create flag: %w", err)
	}
	return nil
}

// GetAllForProject retrieves all flags belonging to the given project.
func (r *GORMFlagRepository) GetAllForProject(projectID string) ([]models.Flag, error) {
	var flags []models.Flag
	if err := r.db.Find(&flags, "project_id = ?", projectID).Error; err != nil {
		return nil, fmt.Errorf("failed to get flags for project %s: %w", projectID, err)
	}
	return flags, nil
}

// GetByID retrieves a flag by its ID within the given project.
func (r *GORMFlagRepository) GetByID(id string, projectID string) (*models.Flag, error) {
	var flag models.Flag
	if err := r.db.First(&flag, "id = ? AND project_id = ?", id, projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("flag with ID %s in project %s: %w", id, projectID, err)
		}
		return nil, fmt.Errorf("failed to get flag by ID %s: %w", id, err)
	}
	return &flag, nil
}

// GetByKey retrieves a flag by its key within the given project.
func (r *GORMFlagRepository) GetByKey(key string, projectID string) (*models.Flag, error) {
	var flag models.Flag
	if err := r.db.First(&flag, "key = ? AND project_id = ?", key, projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("flag with key %s in project %s: %w", key, projectID, err)
		}
		return nil, fmt.Errorf("failed to get flag by key %s: %w", key, err)
	}
	return &flag, nil
}

// Update updates an existing flag in the database.
func (r *GORMFlagRepository) Update(flag *models.Flag) error {
	res := r.db.Save(flag)
	if res.Error != nil {
		return fmt.Errorf("failed to update flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound when the row is gone, so we
		// check RowsAffected.
		return fmt.Errorf("flag with ID %s for update: %w", flag.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete deletes a flag by its ID within the given project.
func (r *GORMFlagRepository) Delete(id string, projectID string) error {
	res := r.db.Delete(&models.Flag{}, "id = ? AND project_id = ?", id, projectID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete flag: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("flag with ID %s for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
