package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	"podcastcrm/internal/apperror"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// AppError renders err with the localized copy for its kind. Errors that
// are not AppErrors are reported as UNKNOWN_ERROR.
func AppError(c *gin.Context, err error, language string) {
	kind := apperror.KindUnknown
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		kind = appErr.Kind
	}
	_ = c.Error(err)
	Error(c, apperror.HTTPStatus(kind), string(kind), apperror.MessageFor(kind, language))
}
