package controllers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"wayfarer/pkg/utils"
)

type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

type adminTokenRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// CreateAdminToken mints a short-lived admin JWT. The shared secret is
// verified against its bcrypt hash from the environment, never stored in
// clear.
func (a *AuthController) CreateAdminToken(c *gin.Context) {
	var req adminTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Secret is required")
		return
	}

	hash := os.Getenv("ADMIN_SECRET_HASH")
	if hash == "" {
		utils.RespondError(c, http.StatusServiceUnavailable, "Admin access is not configured")
		return
	}
	if err := utils.CompareSecret(hash, req.Secret); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid secret")
		return
	}

	token, err := utils.CreateAdminToken()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create token")
		return
	}

	utils.RespondSuccess(c, gin.H{"token": token}, "Token created")
}
