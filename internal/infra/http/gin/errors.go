package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybnb/internal/app/fault"
)

// respondError maps application failures to the wire contract. Conflicts
// surface as 400 alongside validation failures; clients distinguish them by
// message.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	if fe, ok := fault.Of(err); ok {
		status := statusForKind(fe.Kind)
		c.JSON(status, gin.H{"error": fe.Message})
		return
	}
	if logger != nil {
		logger.Error("request failed", "error", err, "path", c.FullPath())
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func statusForKind(kind fault.Kind) int {
	switch kind {
	case fault.KindValidation, fault.KindConflict:
		return http.StatusBadRequest
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
