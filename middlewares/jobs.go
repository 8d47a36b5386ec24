package middlewares

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// JobSecretMiddleware กัน endpoint ของ scheduled jobs ด้วย shared-secret bearer
// ไม่ตั้ง secret + ไม่ใช่ production → เปิดให้ผ่าน (dev convenience เท่านั้น)
func JobSecretMiddleware(secret, env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			if env != "production" {
				c.Next()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "job secret not configured"})
			c.Abort()
			return
		}

		h := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(h, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid job token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
