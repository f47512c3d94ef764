package handlers

import (
	"log"

	"flagship/internal/models"
	"flagship/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FlagHandler handles HTTP requests for feature flags. Every route resolves
// and authorizes the owning project before touching a flag; flags are never
// directly authorizable.
type FlagHandler struct {
	flagService    *services.FlagService
	projectService *services.ProjectService
	validate       *validator.Validate
}

// NewFlagHandler creates a new FlagHandler.
func NewFlagHandler(flagService *services.FlagService, projectService *services.ProjectService) *FlagHandler {
	return &FlagHandler{
		flagService:    flagService,
		projectService: projectService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the flag routes under the project routes. The
// router passed in must already be wrapped with the auth middleware.
func (h *FlagHandler) RegisterRoutes(router fiber.Router) {
	flagRoutes := router.Group("/:projectId/flags")
	flagRoutes.Post("/", h.HandleCreateFlag)
	flagRoutes.Get("/", h.HandleGetFlags)
	flagRoutes.Get("/:flagId", h.HandleGetFlagByID)
	flagRoutes.Put("/:flagId", h.HandleUpdateFlag)
	flagRoutes.Delete("/:flagId", h.HandleDeleteFlag)
	flagRoutes.Post("/:flagKey/evaluate", h.HandleEvaluateFlag)
}

// NewFlagRequest represents the request body for creating a flag.
type NewFlagRequest struct {
	Key         string `json:"key" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// UpdateFlagRequest represents the request body for a partial flag update.
// Omitted fields are left unchanged.
type UpdateFlagRequest struct {
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

// authorizedProject resolves the project for the current route and verifies
// that the caller owns it.
func (h *FlagHandler) authorizedProject(c *fiber.Ctx) (*models.Project, error) {
	principal, ok := principalFromContext(c)
	if !ok {
		return nil, services.ErrUnauthenticated
	}
	return h.projectService.AuthorizeProject(c.Params("projectId"), principal)
}

// HandleCreateFlag creates a new flag in the project.
func (h *FlagHandler) HandleCreateFlag(c *fiber.Ctx) error {
	project, err := h.authorizedProject(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var req NewFlagRequest
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

	flag, err := h.flagService.CreateFlag(req.Key, req.Name, req.Description, req.Enabled, project)
	if err != nil {
		log.Printf("Error creating flag %s in project %s: %v", req.Key, project.ID, err)
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(flag)
}

// HandleGetFlags retrieves all flags in the project.
func (h *FlagHandler) HandleGetFlags(c *fiber.Ctx) error {
	project, err := h.authorizedProject(c)
	if err != nil {
		return errorResponse(c, err)
	}

	flags, err := h.flagService.GetFlagsForProject(project)
	if err != nil {
		log.Printf("Error getting flags for project %s: %v", project.ID, err)
		return errorResponse(c, err)
	}
	return c.JSON(flags)
}

// HandleGetFlagByID retrieves a single flag in the project by its ID.
func (h *FlagHandler) HandleGetFlagByID(c *fiber.Ctx) error {
	project, err := h.authorizedProject(c)
	if err != nil {
		return errorResponse(c, err)
	}

	flag, err := h.flagService.GetFlagByID(c.Params("flagId"), project)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(flag)
}

// HandleUpdateFlag applies a partial update to a flag in the project.
func (h *FlagHandler) HandleUpdateFlag(c *fiber.Ctx) error {
	project, err := h.authorizedProject(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var req UpdateFlagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	flag, err := h.flagService.UpdateFlag(c.Params("flagId"), project, services.FlagUpdate{
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(flag)
}

// HandleDeleteFlag deletes a flag in the project and returns the deleted
// record.
func (h *FlagHandler) HandleDeleteFlag(c *fiber.Ctx) error {
	project, err := h.authorizedProject(c)
	if err != nil {
		return errorResponse(c, err)
	}

	flag, err := h.flagService.DeleteFlag(c.Params("flagId"), project)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(flag)
}

// HandleEvaluateFlag returns the current state of a flag looked up by key.
func (h *FlagHandler) HandleEvaluateFlag(c *fiber.Ctx) error {
	project, err := h.authorizedProject(c)
	if err != nil {
		return errorResponse(c, err)
	}

	state, err := h.flagService.EvaluateFlag(c.Params("flagKey"), project)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(state)
}
