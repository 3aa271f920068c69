package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a new account --> POST /register
func (h *UserHandler) Register(c echo.Context) error {
	req := struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	user, err := h.userService.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, user)
}

// Login exchanges credentials for a JWT --> POST /login
func (h *UserHandler) Login(c echo.Context) error {
	req := struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"token": token})
}

// Logout revokes the current session --> POST /logout
func (h *UserHandler) Logout(c echo.Context) error {
	if err := h.userService.Logout(c.Request().Context(), currentUser(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user --> GET /me
func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(200, currentUser(c))
}

// ApplySeller flips a buyer into an unapproved seller --> POST /apply_seller
func (h *UserHandler) ApplySeller(c echo.Context) error {
	user, err := h.userService.ApplySeller(c.Request().Context(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, user)
}

// ListUsers lists accounts for moderation --> GET /admin/users
func (h *UserHandler) ListUsers(c echo.Context) error {
	pendingOnly := c.QueryParam("pending_sellers") == "true"
	users, err := h.userService.ListUsers(c.Request().Context(), currentUser(c), pendingOnly)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, users)
}

// ApproveSeller grants the manage-listings capability --> POST /admin/users/:id/approve_seller
func (h *UserHandler) ApproveSeller(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	user, err := h.userService.ApproveSeller(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, user)
}
