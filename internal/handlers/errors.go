package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/models"
)

// respondError maps an AppError onto its HTTP status and a {"error": ...} body.
func respondError(c *gin.Context, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case models.CodeValidation:
		status = http.StatusBadRequest
	case models.CodeIntegrity:
		status = http.StatusConflict
	case models.CodeUnauthorized:
		status = http.StatusUnauthorized
	case models.CodeNotFound:
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": appErr.Message})
}

// pathID parses the :id parameter. Ids that cannot exist are reported as not found.
func pathID(c *gin.Context, resource string) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, models.NewNotFoundError(resource, raw))
		return uuid.Nil, false
	}
	return id, true
}

func bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
