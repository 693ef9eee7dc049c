package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernameRE = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var registerValidatorsOnce sync.Once

// registerCustomValidators installs the username/strongpw rules and makes
// validation errors report JSON field names instead of Go struct fields.
func registerCustomValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("username", validUsername)
		_ = v.RegisterValidation("strongpw", strongPassword)
	})
}

// validUsername enforces 3-50 characters of letters, digits, and underscores.
func validUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 3 || len(s) > 50 {
		return false
	}
	return usernameRE.MatchString(s)
}

// strongPassword requires at least 8 characters with an upper, a lower, a
// digit, and a special character.
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}

// validationMessage renders a human-readable message for one failed rule.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return "must be 3-50 characters of letters, numbers, and underscores"
	case "strongpw":
		return "must be at least 8 characters with uppercase, lowercase, number, and special character"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	}
	return "is invalid"
}

// respondValidationError writes a 422 listing offending fields. Non-validator
// binding failures (broken JSON, wrong types) collapse into a body error.
func (h *Handler) respondValidationError(c *gin.Context, err error) {
	if h.log != nil {
		h.log.Infow("request_validation_failed", "path", c.FullPath(), "err", err)
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fields})
		return
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"body": "invalid request payload"}})
}

// respondFieldError writes a 422 for a single offending field.
func (h *Handler) respondFieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{field: message}})
}
