package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "studentblog/internal/errors"
	"studentblog/internal/middleware"
	"studentblog/internal/model"
	"studentblog/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents a profile update.
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// UserResponse wraps the current user.
type UserResponse struct {
	User *model.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} errors.Response{data=AuthResponse}
// @Failure 400 {object} errors.Response
// @Failure 500 {object} errors.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return mapAuthServiceError(err)
	}

	return respond(c, http.StatusCreated, "User registered successfully", AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} errors.Response{data=AuthResponse}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return mapAuthServiceError(err)
	}

	return respond(c, http.StatusOK, "Login successful", AuthResponse{Token: token, User: user})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the presented bearer token when it is still valid.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.BearerToken(c.Request())); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// Profile godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} errors.Response{data=UserResponse}
// @Failure 401 {object} errors.Response
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	return respond(c, http.StatusOK, "Profile retrieved successfully", UserResponse{User: middleware.CurrentUser(c)})
}

// UpdateProfile godoc
// @Summary Update username and email
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile data"
// @Success 200 {object} errors.Response{data=UserResponse}
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), middleware.CurrentUser(c).ID, req.Username, req.Email)
	if err != nil {
		return mapAuthServiceError(err)
	}
	return respond(c, http.StatusOK, "Profile updated successfully", UserResponse{User: user})
}

// ChangePassword godoc
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.authService.ChangePassword(c.Request().Context(), middleware.CurrentUser(c).ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return mapAuthServiceError(err)
	}
	return respond(c, http.StatusOK, "Password changed successfully", nil)
}

func mapAuthServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewHTTPError(http.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS")
	case errors.Is(err, service.ErrUserAlreadyExists):
		return apperrors.NewHTTPError(http.StatusBadRequest, "User with this email or username already exists", "USER_ALREADY_EXISTS")
	case errors.Is(err, service.ErrIncorrectPassword):
		return apperrors.NewHTTPError(http.StatusBadRequest, "Current password is incorrect", "INCORRECT_PASSWORD")
	default:
		return err
	}
}
