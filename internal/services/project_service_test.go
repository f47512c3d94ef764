package services_test

import (
	"fmt"
	"testing"

	"flagship/internal/models"
	"flagship/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockProjectRepository is a mock implementation of repositories.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(project *models.Project) error {
	args := m.Called(project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetAllForOwner(ownerID string) ([]models.Project, error) {
	args := m.Called(ownerID)
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByID(id string) (*models.Project, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

var alice = models.Principal{ID: "user-alice", Username: "alice"}

func TestProjectService_CreateProject(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service := services.NewProjectService(mockRepo)

	// Successful creation binds the project to the principal's user ID
	mockRepo.On("Create", mock.AnythingOfType("*models.Project")).Run(func(args mock.Arguments) {
		project := args.Get(0).(*models.Project)
		assert.Equal(t, alice.ID, project.OwnerID)
	}).Return(nil).Once()

	project, err := service.CreateProject("Web App", "Flags for the web app", alice)
	assert.NoError(t, err)
	assert.Equal(t, "Web App", project.Name)
	mockRepo.AssertExpectations(t)

	// A second project with the same name for the same owner hits the
	// composite unique constraint
	mockRepo.On("Create", mock.AnythingOfType("*models.Project")).Return(fmt.Errorf("failed to create project: %w", gorm.ErrDuplicatedKey)).Once()
	_, err = service.CreateProject("Web App", "duplicate", alice)
	assert.ErrorIs(t, err, services.ErrDuplicateProject)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_GetProjectsForOwner(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service := services.NewProjectService(mockRepo)

	expected := []models.Project{
		{ID: "proj-1", Name: "Web App", OwnerID: alice.ID},
		{ID: "proj-2", Name: "Mobile App", OwnerID: alice.ID},
	}
	mockRepo.On("GetAllForOwner", alice.ID).Return(expected, nil).Once()

	projects, err := service.GetProjectsForOwner(alice)
	assert.NoError(t, err)
	assert.Len(t, projects, 2)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_GetProjectByID(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service := services.NewProjectService(mockRepo)

	expected := &models.Project{ID: "proj-1", Name: "Web App", OwnerID: alice.ID}
	mockRepo.On("GetByID", "proj-1").Return(expected, nil).Once()

	project, err := service.GetProjectByID("proj-1")
	assert.NoError(t, err)
	assert.Equal(t, expected, project)

	mockRepo.On("GetByID", "missing").Return(nil, fmt.Errorf("project with ID missing: %w", gorm.ErrRecordNotFound)).Once()
	_, err = service.GetProjectByID("missing")
	assert.ErrorIs(t, err, services.ErrProjectNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProjectService_AuthorizeProject(t *testing.T) {
	mockRepo := new(MockProjectRepository)
	service := services.NewProjectService(mockRepo)

	project := &models.Project{ID: "proj-1", Name: "Web App", OwnerID: alice.ID}

	// Owner is authorized
	mockRepo.On("GetByID", "proj-1").Return(project, nil).Once()
	authorized, err := service.AuthorizeProject("proj-1", alice)
	assert.NoError(t, err)
	assert.Equal(t, project, authorized)

	// A different user is rejected even with the same username: identity is
	// compared by ID
	impostor := models.Principal{ID: "user-impostor", Username: "alice"}
	mockRepo.On("GetByID", "proj-1").Return(project, nil).Once()
	_, err = service.AuthorizeProject("proj-1", impostor)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Missing project
	mockRepo.On("GetByID", "missing").Return(nil, fmt.Errorf("project with ID missing: %w", gorm.ErrRecordNotFound)).Once()
	_, err = service.AuthorizeProject("missing", alice)
	assert.ErrorIs(t, err, services.ErrProjectNotFound)
	mockRepo.AssertExpectations(t)
}
