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

// MockFlagRepository is a mock implementation of repositories.FlagRepository
type MockFlagRepository struct {
	mock.Mock
}

func (m *MockFlagRepository) Create(flag *models.Flag) error {
	args := m.Called(flag)
	return args.Error(0)
}

func (m *MockFlagRepository) GetAllForProject(projectID string) ([]models.Flag, error) {
	args := m.Called(projectID)
	return args.Get(0).([]models.Flag), args.Error(1)
}

func (m *MockFlagRepository) GetByID(id string, projectID string) (*models.Flag, error) {
	args := m.Called(id, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flag), args.Error(1)
}

func (m *MockFlagRepository) GetByKey(key string, projectID string) (*models.Flag, error) {
	args := m.Called(key, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flag), args.Error(1)
}

func (m *MockFlagRepository) Update(flag *models.Flag) error {
	args := m.Called(flag)
	return args.Error(0)
}

func (m *MockFlagRepository) Delete(id string, projectID string) error {
	args := m.Called(id, projectID)
	return args.Error(0)
}

var testProject = &models.Project{ID: "proj-1", Name: "Web App", OwnerID: "user-alice"}

func TestFlagService_CreateFlag_KeyValidation(t *testing.T) {
	validKeys := []string{
		"a",
		"dark",
		"dark-mode",
		"dark_mode",
		"new-checkout-v2",
		"feature_x2",
		"a-1-b_2",
	}
	invalidKeys := []string{
		"",
		"Dark-Mode",
		"DARKMODE",
		"1feature",
		"dark-",
		"dark_",
		"-dark",
		"_dark",
		"dark--mode",
		"dark__mode",
		"dark-_mode",
		"dark mode",
		"dark.mode",
	}

	for _, key := range validKeys {
		t.Run("valid/"+key, func(t *testing.T) {
			mockRepo := new(MockFlagRepository)
			service := services.NewFlagService(mockRepo, nil)
			mockRepo.On("Create", mock.AnythingOfType("*models.Flag")).Return(nil).Once()

			flag, err := service.CreateFlag(key, "Some Flag", "", false, testProject)
			assert.NoError(t, err)
			assert.Equal(t, key, flag.Key)
			mockRepo.AssertExpectations(t)
		})
	}

	for _, key := range invalidKeys {
		t.Run("invalid/"+key, func(t *testing.T) {
			mockRepo := new(MockFlagRepository)
			service := services.NewFlagService(mockRepo, nil)

			_, err := service.CreateFlag(key, "Some Flag", "", false, testProject)
			assert.ErrorIs(t, err, services.ErrInvalidArgument)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestFlagService_CreateFlag(t *testing.T) {
	mockRepo := new(MockFlagRepository)
	service := services.NewFlagService(mockRepo, nil)

	// Name and description are stored trimmed
	mockRepo.On("Create", mock.AnythingOfType("*models.Flag")).Return(nil).Once()
	flag, err := service.CreateFlag("dark-mode", "  Dark Mode  ", "  Toggles dark theme  ", true, testProject)
	assert.NoError(t, err)
	assert.Equal(t, "Dark Mode", flag.Name)
	assert.Equal(t, "Toggles dark theme", flag.Description)
	assert.True(t, flag.Enabled)
	assert.Equal(t, testProject.ID, flag.ProjectID)
	mockRepo.AssertExpectations(t)

	// A blank name is rejected before the repository is touched
	_, err = service.CreateFlag("dark-mode", "   ", "", false, testProject)
	assert.ErrorIs(t, err, services.ErrInvalidArgument)

	// An empty description is allowed
	mockRepo.On("Create", mock.AnythingOfType("*models.Flag")).Return(nil).Once()
	flag, err = service.CreateFlag("light-mode", "Light Mode", "", false, testProject)
	assert.NoError(t, err)
	assert.Equal(t, "", flag.Description)

	// A key collision within the project hits the composite unique constraint
	mockRepo.On("Create", mock.AnythingOfType("*models.Flag")).Return(fmt.Errorf("failed to create flag: %w", gorm.ErrDuplicatedKey)).Once()
	_, err = service.CreateFlag("dark-mode", "Dark Mode", "", false, testProject)
	assert.ErrorIs(t, err, services.ErrDuplicateFlag)
	mockRepo.AssertExpectations(t)
}

func TestFlagService_GetFlagByID(t *testing.T) {
	mockRepo := new(MockFlagRepository)
	service := services.NewFlagService(mockRepo, nil)

	expected := &models.Flag{ID: "flag-1", Key: "dark-mode", ProjectID: testProject.ID}
	mockRepo.On("GetByID", "flag-1", testProject.ID).Return(expected, nil).Once()

	flag, err := service.GetFlagByID("flag-1", testProject)
	assert.NoError(t, err)
	assert.Equal(t, expected, flag)

	// Lookups are scoped to the project, so a foreign flag ID is not found
	mockRepo.On("GetByID", "foreign-flag", testProject.ID).Return(nil, fmt.Errorf("flag with ID foreign-flag in project proj-1: %w", gorm.ErrRecordNotFound)).Once()
	_, err = service.GetFlagByID("foreign-flag", testProject)
	assert.ErrorIs(t, err, services.ErrFlagNotFound)
	mockRepo.AssertExpectations(t)
}

func TestFlagService_UpdateFlag(t *testing.T) {
	mockRepo := new(MockFlagRepository)
	service := services.NewFlagService(mockRepo, nil)

	existing := &models.Flag{
		ID:          "flag-1",
		Key:         "dark-mode",
		Name:        "Dark Mode",
		Description: "Toggles dark theme",
		Enabled:     false,
		ProjectID:   testProject.ID,
	}

	// Patching only enabled leaves the description unchanged
	enabled := true
	mockRepo.On("GetByID", "flag-1", testProject.ID).Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Flag")).Return(nil).Once()

	updated, err := service.UpdateFlag("flag-1", testProject, services.FlagUpdate{Enabled: &enabled})
	assert.NoError(t, err)
	assert.True(t, updated.Enabled)
	assert.Equal(t, "Toggles dark theme", updated.Description)
	mockRepo.AssertExpectations(t)

	// Patching the description trims it and leaves enabled unchanged
	description := "  New description  "
	mockRepo.On("GetByID", "flag-1", testProject.ID).Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Flag")).Return(nil).Once()

	updated, err = service.UpdateFlag("flag-1", testProject, services.FlagUpdate{Description: &description})
	assert.NoError(t, err)
	assert.Equal(t, "New description", updated.Description)
	assert.True(t, updated.Enabled)

	// Unknown flag ID within the project
	mockRepo.On("GetByID", "missing", testProject.ID).Return(nil, fmt.Errorf("flag with ID missing in project proj-1: %w", gorm.ErrRecordNotFound)).Once()
	_, err = service.UpdateFlag("missing", testProject, services.FlagUpdate{Enabled: &enabled})
	assert.ErrorIs(t, err, services.ErrFlagNotFound)
	mockRepo.AssertExpectations(t)
}

func TestFlagService_DeleteFlag(t *testing.T) {
	mockRepo := new(MockFlagRepository)
	service := services.NewFlagService(mockRepo, nil)

	existing := &models.Flag{ID: "flag-1", Key: "dark-mode", ProjectID: testProject.ID}

	// Delete returns the deleted record
	mockRepo.On("GetByID", "flag-1", testProject.ID).Return(existing, nil).Once()
	mockRepo.On("Delete", "flag-1", testProject.ID).Return(nil).Once()

	deleted, err := service.DeleteFlag("flag-1", testProject)
	assert.NoError(t, err)
	assert.Equal(t, "dark-mode", deleted.Key)

	mockRepo.On("GetByID", "missing", testProject.ID).Return(nil, fmt.Errorf("flag with ID missing in project proj-1: %w", gorm.ErrRecordNotFound)).Once()
	_, err = service.DeleteFlag("missing", testProject)
	assert.ErrorIs(t, err, services.ErrFlagNotFound)
	mockRepo.AssertExpectations(t)
}

func TestFlagService_EvaluateFlag(t *testing.T) {
	mockRepo := new(MockFlagRepository)
	service := services.NewFlagService(mockRepo, nil)

	existing := &models.Flag{ID: "flag-1", Key: "dark-mode", Enabled: true, ProjectID: testProject.ID}
	mockRepo.On("GetByKey", "dark-mode", testProject.ID).Return(existing, nil).Once()

	state, err := service.EvaluateFlag("dark-mode", testProject)
	assert.NoError(t, err)
	assert.Equal(t, &models.FlagState{Flag: "dark-mode", Enabled: true}, state)

	mockRepo.On("GetByKey", "missing", testProject.ID).Return(nil, fmt.Errorf("flag with key missing in project proj-1: %w", gorm.ErrRecordNotFound)).Once()
	_, err = service.EvaluateFlag("missing", testProject)
	assert.ErrorIs(t, err, services.ErrFlagNotFound)
	mockRepo.AssertExpectations(t)
}
