package util

import (
	"net/http"

	"taqyim_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the error envelope: {"error": "..."} with the HTTP status
// carrying the category (400 bad request / 404 not found / 500 internal).
type ErrorResponse struct {
	Error string `json:"error"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "unauthorized")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("internal server error", zap.Error(err))
	InternalServerError(c)
}
