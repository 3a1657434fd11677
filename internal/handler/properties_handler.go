package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/twofa/internal/pkg/response"
)

// Properties are the client-visible settings of the code flow.
type Properties struct {
	CodeTTLSeconds  int  `json:"code_ttl_seconds"`
	CooldownSeconds int  `json:"cooldown_seconds"`
	EchoCode        bool `json:"echo_code"`
}

type PropertiesHandler struct {
	properties Properties
}

func NewPropertiesHandler(properties Properties) *PropertiesHandler {
	return &PropertiesHandler{properties: properties}
}

func (h *PropertiesHandler) Get(c *gin.Context) {
	response.Success(c, gin.H{"properties": h.properties})
}
