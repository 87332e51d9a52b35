package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HannanShehzad/TaskManager/internal/apperror"
)

// respondError writes the uniform error envelope for a domain error. This is
// the only place service failures become HTTP responses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	if kind == apperror.KindInternal && logger != nil {
		logger.Error("internal error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}

	c.JSON(status, gin.H{
		"status":  apperror.EnvelopeStatus(status),
		"message": apperror.Message(err),
	})
}

// NotFoundRoute is the fallthrough handler for unmatched routes.
func NotFoundRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(404, gin.H{
			"status":  "fail",
			"message": "can't find " + c.Request.URL.Path + " on this server",
		})
	}
}
