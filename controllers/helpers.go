package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HydraItalia/hydra-sub002/repository"
	"github.com/HydraItalia/hydra-sub002/utils"
)

// currentClientID หา client ของ user ที่ล็อกอิน (0 = user ไม่ผูกกับ client)
func currentClientID(c *gin.Context, users *repository.UserRepository) uint {
	uid := utils.CurrentUserID(c)
	if uid == 0 {
		return 0
	}
	u, err := users.Get(uid)
	if err != nil || u.ClientID == nil {
		return 0
	}
	return *u.ClientID
}

func paramUint(c *gin.Context, name string) uint {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}
