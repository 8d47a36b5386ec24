package utils

import "github.com/gin-gonic/gin"

// CurrentUserID อ่าน user id ที่ AuthMiddleware set ไว้ (เป็น uint เสมอ)
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get("userId"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
