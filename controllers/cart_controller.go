package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/HydraItalia/hydra-sub002/pkg/resp"
	"github.com/HydraItalia/hydra-sub002/repository"
	"github.com/HydraItalia/hydra-sub002/services"
)

type CartController struct {
	Carts *services.CartService
	Users *repository.UserRepository
}

func NewCartController(carts *services.CartService, users *repository.UserRepository) *CartController {
	return &CartController{Carts: carts, Users: users}
}

// GET /cart
func (cc *CartController) Get(c *gin.Context) {
	clientID := currentClientID(c, cc.Users)
	if clientID == 0 {
		resp.Forbidden(c, "user has no client")
		return
	}
	cart, err := cc.Carts.GetCart(clientID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, cart)
}

// POST /cart/items
func (cc *CartController) AddItem(c *gin.Context) {
	clientID := currentClientID(c, cc.Users)
	if clientID == 0 {
		resp.Forbidden(c, "user has no client")
		return
	}

	var req services.AddItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cart, err := cc.Carts.AddItem(clientID, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, cart)
}

// DELETE /cart/items/:id
func (cc *CartController) RemoveItem(c *gin.Context) {
	clientID := currentClientID(c, cc.Users)
	if clientID == 0 {
		resp.Forbidden(c, "user has no client")
		return
	}
	if err := cc.Carts.RemoveItem(clientID, paramUint(c, "id")); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"removed": true})
}
