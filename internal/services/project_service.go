package services

import (
	"errors"
	"fmt"

	"flagship/internal/models"
	"flagship/internal/repositories"

	"gorm.io/gorm"
)

// ProjectService handles business logic for projects, including the
// ownership check that gates every flag operation.
type ProjectService struct {
	projectRepo repositories.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repositories.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProject creates a new project owned by the given principal. Returns
// ErrDuplicateProject if the owner already has a project with this name,
// surfaced by the store's composite unique constraint.
func (s *ProjectService) CreateProject(name, description string, owner models.Principal) (*models.Project, error) {
	project := &models.Project{
		Name:        name,
		Description: description,
		OwnerID:     owner.ID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateProject
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProjectsForOwner retrieves all projects owned by the given principal.
// No ordering is guaranteed.
func (s *ProjectService) GetProjectsForOwner(owner models.Principal) ([]models.Project, error) {
	return s.projectRepo.GetAllForOwner(owner.ID)
}

// GetProjectByID retrieves a project by its ID. Returns ErrProjectNotFound
// if no such project exists.
func (s *ProjectService) GetProjectByID(id string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// AuthorizeProject resolves a project by ID and verifies that the principal
// owns it. Ownership is compared by user ID, not username, so two distinct
// users are never conflated. Returns ErrProjectNotFound if the project does
// not exist and ErrUnauthorized if the principal is not the owner. Flags are
// never directly authorizable; every flag operation goes through this check.
func (s *ProjectService) AuthorizeProject(projectID string, principal models.Principal) (*models.Project, error) {
	project, err := s.GetProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != principal.ID {
		return nil, ErrUnauthorized
	}
	return project, nil
}
