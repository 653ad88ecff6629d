package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InjectDB 将全局单例 DB 注入请求上下文
func InjectDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}
