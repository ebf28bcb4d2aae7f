package middleware

import "github.com/gin-gonic/gin"

// CORSMiddleware allows the operator dashboard frontend to call the API
// from another origin. Tighten the origin list before exposing this
// beyond the dashboard.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Line-Signature")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
