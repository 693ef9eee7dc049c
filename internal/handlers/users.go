package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// updateProfileRequest carries optional profile changes for the caller's own
// account.
type updateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// @Summary      Current user profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [get]
// @Security     BearerAuth
func (h *Handler) getMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  models.User
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}
// @Router       /api/users/me [put]
// @Security     BearerAuth
func (h *Handler) updateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondValidationError(c, err)
		return
	}

	updated, err := h.services.Users.UpdateProfile(c.Request.Context(), user.ID, service.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			h.respondFieldError(c, "email", "already registered")
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "user_update_failed", err, "user_id", user.ID)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary      List all users (admin)
// @Tags         users
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, users"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
// @Security     BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "user_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(users),
		"users": users,
	})
}

// @Summary      Deactivate a user (admin)
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/users/{id}/deactivate [put]
// @Security     BearerAuth
func (h *Handler) deactivateUser(c *gin.Context) {
	h.setUserActive(c, false)
}

// @Summary      Activate a user (admin)
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id}/activate [put]
// @Security     BearerAuth
func (h *Handler) activateUser(c *gin.Context) {
	h.setUserActive(c, true)
}

func (h *Handler) setUserActive(c *gin.Context, active bool) {
	actor, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.respondFieldError(c, "id", "must be a positive integer")
		return
	}

	user, err := h.services.Users.SetActive(c.Request.Context(), actor.ID, id, active)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDeactivate):
			h.respondFieldError(c, "id", "cannot deactivate your own account")
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "user_set_active_failed", err, "user_id", id)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
