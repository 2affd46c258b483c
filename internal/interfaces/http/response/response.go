package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CodeOK 成功时的业务码
const CodeOK = 0

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// SuccessList 列表响应，nil 输出为空数组，UI 不用区分 null
func SuccessList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	Success(c, items)
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, message string) {
	ErrorWithDetail(c, httpCode, errCode, message, "")
}

// ErrorWithDetail 带详情的错误响应，detail 一般是底层错误信息
func ErrorWithDetail(c *gin.Context, httpCode int, errCode int, message, detail string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
		Detail:  detail,
	})
}
