package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HydraItalia/hydra-sub002/pkg/opresult"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, gin.H{"ok": false, "error": msg})
}
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

// FromError map opresult.Error → HTTP status
func FromError(c *gin.Context, err error) {
	var oe *opresult.Error
	if !opresult.As(err, &oe) {
		ServerError(c, err)
		return
	}
	switch oe.Kind {
	case opresult.KindValidation:
		BadRequest(c, oe.Message)
	case opresult.KindUnauthorized:
		Unauthorized(c, oe.Message)
	case opresult.KindForbidden:
		Forbidden(c, oe.Message)
	case opresult.KindNotFound:
		NotFound(c, oe.Message)
	case opresult.KindConflict:
		Conflict(c, oe.Message)
	default:
		ServerError(c, oe)
	}
}
