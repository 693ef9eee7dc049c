package handlers

import "github.com/gin-gonic/gin"

// Common client-facing error messages; internals stay in the logs.
const (
	errInternal     = "internal error"
	errTaskNotFound = "task not found"
	errUserNotFound = "user not found"
)

// logAndJSONError logs the underlying error and writes a sanitized JSON
// error response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
