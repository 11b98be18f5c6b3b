package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response JSON 信封，展示层按 success 判断是否渲染错误提示
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Success bool   `json:"success"`
}

func write(c *gin.Context, status int, body Response) {
	c.JSON(status, body)
}

// Success 200 + 数据
func Success(c *gin.Context, data any) {
	write(c, http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: data, Success: true})
}

// Degraded 影片表不可读时仍返回 200，data 为空结果，message 带上读取错误
func Degraded(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, Response{Code: http.StatusServiceUnavailable, Message: message, Data: data})
}

// BadRequest 查询参数不合法
func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: message})
}
