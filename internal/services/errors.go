package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these to
// HTTP statuses with errors.Is; every condition is terminal and
// non-retryable.
var (
	// ErrInvalidCredentials is returned for both an unknown username and a
	// wrong password, so a caller cannot tell which case occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateUsername is returned when a signup collides with an
	// existing username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrDuplicateProject is returned when an owner already has a project
	// with the requested name.
	ErrDuplicateProject = errors.New("a project with this name already exists")

	// ErrDuplicateFlag is returned when a project already has a flag with
	// the requested key.
	ErrDuplicateFlag = errors.New("a flag with this key already exists in the project")

	// ErrProjectNotFound is returned when no project exists with the
	// requested ID.
	ErrProjectNotFound = errors.New("project not found")

	// ErrFlagNotFound is returned when no flag matches the requested ID or
	// key within the project.
	ErrFlagNotFound = errors.New("flag not found")

	// ErrUnauthenticated is returned when a request reaches a protected
	// operation without an authenticated principal.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnauthorized is returned when the authenticated user is not the
	// owner of the requested project.
	ErrUnauthorized = errors.New("user is not authorized to access project")

	// ErrInvalidArgument is returned when a flag key, name or description
	// fails validation.
	ErrInvalidArgument = errors.New("invalid argument")
)
