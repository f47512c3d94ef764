package repositories

import (
	"fmt"

	"flagship/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProjectRepository is a GORM implementation of ProjectRepository.
type GORMProjectRepository struct {
	db *gorm.DB
}

// NewGORMProjectRepository creates a new instance of GORMProjectRepository.
func NewGORMProjectRepository(db *gorm.DB) *GORMProjectRepository {
	return &GORMProjectRepository{
		db: db,
	}
}

// Create creates a new project in the database. A duplicate (owner, name)
// pair surfaces as gorm.ErrDuplicatedKey from the composite unique index.
func (r *GORMProjectRepository) Create(project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetAllForOwner retrieves all projects owned by the given user, with the
// owner preloaded for response assembly. No ordering is guaranteed.
func (r *GORMProjectRepository) GetAllForOwner(ownerID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Owner").Find(&projects, "owner_id = ?", ownerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get projects for owner %s: %w", ownerID, err)
	}
	return projects, nil
}

// GetByID retrieves a single project by its ID from the database.
func (r *GORMProjectRepository) GetByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Owner").First(&project, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("project with ID %s: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get project by ID %s: %w", id, err)
	}
	return &project, nil
}
