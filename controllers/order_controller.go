package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HydraItalia/hydra-sub002/pkg/resp"
	"github.com/HydraItalia/hydra-sub002/repository"
	"github.com/HydraItalia/hydra-sub002/services"
	"github.com/HydraItalia/hydra-sub002/utils"
)

type OrderController struct {
	Orders   *services.OrderService
	Payments *services.PaymentService
	Users    *repository.UserRepository
}

func NewOrderController(orders *services.OrderService, payments *services.PaymentService, users *repository.UserRepository) *OrderController {
	return &OrderController{Orders: orders, Payments: payments, Users: users}
}

// POST /orders/checkout — แตก cart เป็น order + sub-orders แล้ว kick off authorization
func (oc *OrderController) Checkout(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	clientID := currentClientID(c, oc.Users)
	if clientID == 0 {
		resp.Forbidden(c, "user has no client")
		return
	}

	var req services.CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := oc.Orders.CreateFromCart(uid, clientID, &req)
	if err != nil {
		resp.FromError(c, err)
		return
	}

	// authorize ต่อ sub-order — พลาดรายไหน state machine บันทึกเอง ไม่ทำ checkout พัง
	for _, sub := range out.SubOrders {
		if _, err := oc.Payments.StartAuthorization(c.Request.Context(), sub.ID); err != nil {
			// ถูก log ใน service แล้ว; เดินต่อรายถัดไป
			continue
		}
	}

	resp.Created(c, out)
}

// GET /orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	clientID := currentClientID(c, oc.Users)
	if clientID == 0 {
		resp.Forbidden(c, "user has no client")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := oc.Orders.ListForClient(clientID, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	clientID := currentClientID(c, oc.Users)
	if clientID == 0 {
		resp.Forbidden(c, "user has no client")
		return
	}
	o, err := oc.Orders.DetailForClient(clientID, paramUint(c, "id"))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"order": o, "subOrders": o.SubOrders})
}
