package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"flagship/internal/models"
	"flagship/internal/repositories"
	"flagship/pkg/rabbitmq"

	"gorm.io/gorm"
)

// flagKeyPattern constrains flag keys to lowercase machine-readable
// identifiers: lowercase letters first, with digits allowed after the first
// separator run, single hyphens or underscores only between alphanumeric
// runs, never trailing.
var flagKeyPattern = regexp.MustCompile(`^[a-z]+(?:[-_][a-z0-9]+)*$`)

// FlagUpdate is the payload for a partial flag update. Nil fields are left
// unchanged.
type FlagUpdate struct {
	Description *string
	Enabled     *bool
}

// FlagService handles business logic for feature flags. If an event client
// is configured, flag lifecycle changes are published to the flag events
// queue; publish failures are logged and never fail the request.
type FlagService struct {
	flagRepo repositories.FlagRepository
	mqClient *rabbitmq.Client
}

// NewFlagService creates a new FlagService. mqClient may be nil, in which
// case no events are published.
func NewFlagService(flagRepo repositories.FlagRepository, mqClient *rabbitmq.Client) *FlagService {
	return &FlagService{
		flagRepo: flagRepo,
		mqClient: mqClient,
	}
}

// CreateFlag creates a new flag in a project. The key, name and description
// are validated; name and description are stored trimmed. Returns
// ErrInvalidArgument on a validation failure and ErrDuplicateFlag if the
// project already has a flag with this key, surfaced by the store's
// composite unique constraint.
func (s *FlagService) CreateFlag(key, name, description string, enabled bool, project *models.Project) (*models.Flag, error) {
	if err := validateFlagKey(key); err != nil {
		return nil, err
	}
	trimmedName, err := validateFlagName(name)
	if err != nil {
		return nil, err
	}

	flag := &models.Flag{
		Key:         key,
		Name:        trimmedName,
		Description: strings.TrimSpace(description),
		Enabled:     enabled,
		ProjectID:   project.ID,
	}
	if err := s.flagRepo.Create(flag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateFlag
		}
		return nil, fmt.Errorf("failed to create flag: %w", err)
	}

	s.publishEvent("flag.created", flag)
	return flag, nil
}

// GetFlagsForProject retrieves all flags belonging to a project.
func (s *FlagService) GetFlagsForProject(project *models.Project) ([]models.Flag, error) {
	return s.flagRepo.GetAllForProject(project.ID)
}

// GetFlagByID retrieves a flag by its ID within a project. Returns
// ErrFlagNotFound if no flag with that ID exists in the project.
func (s *FlagService) GetFlagByID(id string, project *models.Project) (*models.Flag, error) {
	flag, err := s.flagRepo.GetByID(id, project.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, err
	}
	return flag, nil
}

// GetFlagByKey retrieves a flag by its key within a project. Returns
// ErrFlagNotFound if no flag with that key exists in the project.
func (s *FlagService) GetFlagByKey(key string, project *models.Project) (*models.Flag, error) {
	flag, err := s.flagRepo.GetByKey(key, project.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, err
	}
	return flag, nil
}

// UpdateFlag applies a partial update to a flag within a project. Only the
// supplied fields are changed; a new description is re-validated and stored
// trimmed. Returns ErrFlagNotFound if no flag with that ID exists in the
// project.
func (s *FlagService) UpdateFlag(id string, project *models.Project, update FlagUpdate) (*models.Flag, error) {
	flag, err := s.GetFlagByID(id, project)
	if err != nil {
		return nil, err
	}

	if update.Description != nil {
		flag.Description = strings.TrimSpace(*update.Description)
	}
	if update.Enabled != nil {
		flag.Enabled = *update.Enabled
	}

	if err := s.flagRepo.Update(flag); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("failed to update flag: %w", err)
	}

	s.publishEvent("flag.updated", flag)
	return flag, nil
}

// DeleteFlag deletes a flag by its ID within a project and returns the
// deleted record. Returns ErrFlagNotFound if no flag with that ID exists in
// the project.
func (s *FlagService) DeleteFlag(id string, project *models.Project) (*models.Flag, error) {
	flag, err := s.GetFlagByID(id, project)
	if err != nil {
		return nil, err
	}
	if err := s.flagRepo.Delete(id, project.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("failed to delete flag: %w", err)
	}

	s.publishEvent("flag.deleted", flag)
	return flag, nil
}

// EvaluateFlag returns the current state of a flag looked up by key. This is
// the consumer-facing query; it is a pure read with no side effects. Returns
// ErrFlagNotFound if the key is absent in the project.
func (s *FlagService) EvaluateFlag(key string, project *models.Project) (*models.FlagState, error) {
	flag, err := s.GetFlagByKey(key, project)
	if err != nil {
		return nil, err
	}
	return &models.FlagState{
		Flag:    flag.Key,
		Enabled: flag.Enabled,
	}, nil
}

// publishEvent emits a flag lifecycle event to the flag events queue.
func (s *FlagService) publishEvent(event string, flag *models.Flag) {
	if s.mqClient == nil {
		return
	}

	err := s.mqClient.PublishFlagEvent(map[string]interface{}{
		"event":     event,
		"flagId":    flag.ID,
		"key":       flag.Key,
		"projectId": flag.ProjectID,
		"enabled":   flag.Enabled,
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for flag %s: %v", event, flag.ID, err)
	}
}

// validateFlagKey checks a flag key against the key pattern.
func validateFlagKey(key string) error {
	if !flagKeyPattern.MatchString(key) {
		return fmt.Errorf("%w: flag key %q is not valid", ErrInvalidArgument, key)
	}
	return nil
}

// validateFlagName checks that a flag name is non-blank and returns it
// trimmed.
func validateFlagName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: flag name must be a non-empty string", ErrInvalidArgument)
	}
	return trimmed, nil
}
