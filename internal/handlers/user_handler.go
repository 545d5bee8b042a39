package handlers

import (
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and subscription endpoints.
type UserHandler struct {
	users     *services.UserService
	follows   *services.FollowService
	validate  *validator.Validate
	publicURL string
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, follows *services.FollowService, validate *validator.Validate, publicURL string) *UserHandler {
	return &UserHandler{
		users:     users,
		follows:   follows,
		validate:  validate,
		publicURL: publicURL,
	}
}

// RegisterRoutes registers the user routes. Static segments come before
// ":id" so that "me" and "subscriptions" are not taken for ids.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	users := router.Group("/users")
	users.Get("/", h.HandleListUsers)
	users.Get("/me", requireAuth, h.HandleMe)
	users.Get("/subscriptions", requireAuth, h.HandleSubscriptions)
	users.Post("/set_password", requireAuth, h.HandleSetPassword)
	users.Put("/me/avatar", requireAuth, h.HandleSetAvatar)
	users.Delete("/me/avatar", requireAuth, h.HandleDeleteAvatar)
	users.Get("/:id", h.HandleGetUser)
	users.Post("/:id/subscribe", requireAuth, h.HandleSubscribe)
	users.Delete("/:id/subscribe", requireAuth, h.HandleUnsubscribe)
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	views, err := h.users.ListUsers(viewerOf(c, h.publicURL))
	if err != nil {
		return respondError(c, err, "list users")
	}
	return c.JSON(views)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	view, err := h.users.GetUser(viewerOf(c, h.publicURL), c.Params("id"))
	if err != nil {
		return respondError(c, err, "get user")
	}
	return c.JSON(view)
}

func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	viewer := viewerOf(c, h.publicURL)
	view, err := h.users.GetUser(viewer, viewer.UserID)
	if err != nil {
		return respondError(c, err, "get current user")
	}
	return c.JSON(view)
}

// SetPasswordRequest represents the request body for a password change.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

func (h *UserHandler) HandleSetPassword(c *fiber.Ctx) error {
	var req SetPasswordRequest
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}
	if err := h.users.SetPassword(middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err, "set password")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AvatarRequest carries a base64 encoded image, optionally as a data URI.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

func (h *UserHandler) HandleSetAvatar(c *fiber.Ctx) error {
	var req AvatarRequest
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}
	url, err := h.users.SetAvatar(c.UserContext(), viewerOf(c, h.publicURL), req.Avatar)
	if err != nil {
		return respondError(c, err, "set avatar")
	}
	return c.JSON(fiber.Map{"avatar": url})
}

func (h *UserHandler) HandleDeleteAvatar(c *fiber.Ctx) error {
	if err := h.users.DeleteAvatar(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, err, "delete avatar")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscriptions lists the authors the caller follows.
func (h *UserHandler) HandleSubscriptions(c *fiber.Ctx) error {
	limit, err := recipesLimit(c)
	if err != nil {
		return respondError(c, err, "list subscriptions")
	}
	views, err := h.follows.ListFollowing(viewerOf(c, h.publicURL), limit)
	if err != nil {
		return respondError(c, err, "list subscriptions")
	}
	return c.JSON(views)
}

func (h *UserHandler) HandleSubscribe(c *fiber.Ctx) error {
	limit, err := recipesLimit(c)
	if err != nil {
		return respondError(c, err, "subscribe")
	}
	view, err := h.follows.Subscribe(viewerOf(c, h.publicURL), c.Params("id"), limit)
	if err != nil {
		return respondError(c, err, "subscribe")
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

func (h *UserHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	if err := h.follows.Unsubscribe(viewerOf(c, h.publicURL), c.Params("id")); err != nil {
		return respondError(c, err, "unsubscribe")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
