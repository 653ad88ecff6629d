package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health 存活探针，顺带探测数据库连通性
func (h *Handlers) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if sqlDB, err := h.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status})
}
