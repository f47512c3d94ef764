package handlers

import (
	"log"
	"time"

	"flagship/internal/models"
	"flagship/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	projectService *services.ProjectService
	validate       *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the project routes. The router passed in must
// already be wrapped with the auth middleware.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/", h.HandleCreateProject)
	router.Get("/", h.HandleGetProjects)
}

// NewProjectRequest represents the request body for creating a project.
type NewProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ProjectResponse represents the data for a project sent in a response. The
// owner is exposed by username, never by the user record itself.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// newProjectResponse creates a project response for a project.
func newProjectResponse(project *models.Project, ownerUsername string) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Owner:       ownerUsername,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// HandleCreateProject creates a new project owned by the caller.
func (h *ProjectHandler) HandleCreateProject(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	var req NewProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	project, err := h.projectService.CreateProject(req.Name, req.Description, principal)
	if err != nil {
		log.Printf("Error creating project %s for user %s: %v", req.Name, principal.Username, err)
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newProjectResponse(project, principal.Username))
}

// HandleGetProjects retrieves all projects owned by the caller.
func (h *ProjectHandler) HandleGetProjects(c *fiber.Ctx) error {
	principal, ok := principalFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	projects, err := h.projectService.GetProjectsForOwner(principal)
	if err != nil {
		log.Printf("Error getting projects for user %s: %v", principal.Username, err)
		return errorResponse(c, err)
	}

	responses := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, newProjectResponse(&projects[i], principal.Username))
	}
	return c.JSON(responses)
}
