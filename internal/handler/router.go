package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/twofa/internal/middleware"
)

type RouterDeps struct {
	TwoFA           *TwoFAHandler
	Properties      *PropertiesHandler
	RateLimitWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/send-2fa", middleware.RateLimit(deps.RateLimitWindow), deps.TwoFA.SendCode)
	api.POST("/verify-2fa", deps.TwoFA.VerifyCode)
	api.GET("/2fa/properties", deps.Properties.Get)
}
