package handlers

import (
	"github.com/gin-gonic/gin"

	"authapi/internal/services"
)

// respond — единый конверт ответа: {status, message, data}.
func respond(c *gin.Context, status int, message string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func claimsFromCtx(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}
