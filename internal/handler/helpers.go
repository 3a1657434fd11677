package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/twofa/internal/middleware"
	"github.com/xxxsen/twofa/internal/pkg/errcode"
	appErr "github.com/xxxsen/twofa/internal/pkg/errors"
	"github.com/xxxsen/twofa/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, code, message := classifyError(err)
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("errcode", code),
		zap.Error(err),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed")
	} else {
		logger.Warn("request rejected")
	}
	response.Error(c, status, message)
}

func classifyError(err error) (int, int, string) {
	switch {
	case errors.Is(err, appErr.ErrDelivery):
		return http.StatusInternalServerError, errcode.ErrDelivery, "Failed to send email"
	case errors.Is(err, appErr.ErrInvalid):
		return http.StatusBadRequest, errcode.ErrInvalid, "invalid code"
	case errors.Is(err, appErr.ErrExpired):
		return http.StatusBadRequest, errcode.ErrExpired, "code expired"
	case errors.Is(err, appErr.ErrTooMany):
		return http.StatusTooManyRequests, errcode.ErrTooMany, "too many requests"
	case errors.Is(err, appErr.ErrNotFound):
		return http.StatusNotFound, errcode.ErrNotFound, "not found"
	default:
		return http.StatusInternalServerError, errcode.ErrInternal, "internal error"
	}
}
