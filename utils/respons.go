package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	ErrorCode string      `json:"error_code,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondErrorCode untuk penolakan dengan kode mesin stabil di samping pesan.
func RespondErrorCode(c *gin.Context, code int, errorCode, message string) {
	c.JSON(code, JSONResponse{
		Status:    false,
		Message:   message,
		ErrorCode: errorCode,
		Data:      nil,
	})
}
