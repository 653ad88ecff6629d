package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body 统一响应结构
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Body{Code: 0, Message: message, Data: data})
}

// Fail 业务失败响应，HTTP 状态仍为 200
func Fail(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Body{Code: 1, Message: message, Data: data})
}

// Abort 按 HTTP 状态码终止请求
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
