package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/HydraItalia/hydra-sub002/pkg/resp"
	"github.com/HydraItalia/hydra-sub002/services"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := ac.Auth.Login(&req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, out)
}
