package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpw"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration payload"
// @Success      201   {object}  models.User
// @Failure      422   {object}  map[string]interface{}  "field errors"
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	user, err := h.services.Register(c.Request.Context(), service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			h.respondFieldError(c, "username", "already registered")
		case errors.Is(err, repository.ErrEmailTaken):
			h.respondFieldError(c, "email", "already registered")
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_register_failed", err, "username", req.Username)
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary      Log in and receive an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  map[string]string  "access_token, token_type"
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}
// @Failure      429   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	token, err := h.services.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrInvalidPassword),
			errors.Is(err, service.ErrInactiveUser):
			// Do not reveal whether the username or the password was wrong.
			if h.log != nil {
				h.log.Infow("auth_login_failed", "username", req.Username, "err", err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			// Storage failure, not a credential problem.
			h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "auth_login_failed", err, "username", req.Username)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
