package ui

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reallygood83/mathemotion/internal/errors"
)

// respondError writes an AppError as JSON with the status its code maps to
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("[UI] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("[UI] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	body := gin.H{"error": err.Error(), "code": errors.GetCode(err)}
	if errors.HasCode(err, errors.CodeSchemaIncomplete) {
		if result := s.sessions.result(sessionID(c)); result != nil {
			body["available_columns"] = result.Table.Columns()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// wantsBase64 reports whether the caller asked for a JSON-wrapped image
func wantsBase64(c *gin.Context) bool {
	format := strings.ToLower(c.Query("format"))
	return format == "base64" || format == "json"
}
