// Package respond writes the JSON envelope shared by every API route:
// {success, status, message, data}.
package respond

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NithinKS007/PDF-extractor-server/internal/apperror"
	"github.com/NithinKS007/PDF-extractor-server/pkg/logger"
)

type Envelope struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Status: status, Message: message, Data: data})
}

// Error logs err and aborts with its failure envelope. Errors that are not
// *apperror.AppError are reported as internal errors with a generic message.
func Error(c *gin.Context, err error) {
	ae := apperror.From(err)
	fields := logger.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"status": ae.Status,
		"code":   ae.Code,
	}
	if ae.Cause != nil {
		fields["cause"] = ae.Cause.Error()
	}
	if ae.Status >= http.StatusInternalServerError {
		logger.Errorw("request failed", fields)
	} else {
		logger.Debugw("request rejected", fields)
	}
	c.AbortWithStatusJSON(ae.Status, Envelope{Success: false, Status: ae.Status, Message: ae.Message})
}

// Recovery turns panics into an internal error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		Error(c, apperror.Wrap(apperror.Internal, fmt.Errorf("panic: %v", recovered)))
	})
}
