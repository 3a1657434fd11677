package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/twofa/internal/pkg/response"
	"github.com/xxxsen/twofa/internal/service"
)

type TwoFAHandler struct {
	otp      *service.OTPService
	echoCode bool
}

// NewTwoFAHandler builds the code endpoints. With echoCode set the issued
// code is returned to the caller, which only suits demo deployments.
func NewTwoFAHandler(otp *service.OTPService, echoCode bool) *TwoFAHandler {
	return &TwoFAHandler{otp: otp, echoCode: echoCode}
}

type sendCodeRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *TwoFAHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		response.Error(c, http.StatusBadRequest, "email is required")
		return
	}
	code, err := h.otp.IssueCode(c.Request.Context(), req.Email)
	if err != nil {
		handleError(c, err)
		return
	}
	if h.echoCode {
		response.Success(c, gin.H{"code": code})
		return
	}
	response.Success(c, gin.H{"message": "verification code sent"})
}

func (h *TwoFAHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	token, err := h.otp.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token})
}
