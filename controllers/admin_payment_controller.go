package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HydraItalia/hydra-sub002/pkg/opresult"
	"github.com/HydraItalia/hydra-sub002/pkg/resp"
	"github.com/HydraItalia/hydra-sub002/repository"
	"github.com/HydraItalia/hydra-sub002/services"
	"github.com/HydraItalia/hydra-sub002/utils"
)

// AdminPaymentController: ทุก action role-gated (admin/agent) ที่ชั้น route
// ตอบเป็น {success:true} | {success:false, error} ตาม RPC semantics
type AdminPaymentController struct {
	Orders    *services.OrderService
	Payments  *services.PaymentService
	SubRepo   *repository.SubOrderRepository
	AuditRepo *repository.AuditRepository
}

func NewAdminPaymentController(orders *services.OrderService, payments *services.PaymentService, subRepo *repository.SubOrderRepository, auditRepo *repository.AuditRepository) *AdminPaymentController {
	return &AdminPaymentController{Orders: orders, Payments: payments, SubRepo: subRepo, AuditRepo: auditRepo}
}

func rpcOK(c *gin.Context, extra gin.H) {
	out := gin.H{"success": true}
	for k, v := range extra {
		out[k] = v
	}
	c.JSON(200, out)
}

func rpcFail(c *gin.Context, err error) {
	status := 500
	switch opresult.KindOf(err) {
	case opresult.KindValidation:
		status = 400
	case opresult.KindNotFound:
		status = 404
	case opresult.KindConflict:
		status = 409
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// GET /admin/suborders/failed
func (pc *AdminPaymentController) ListFailed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := pc.SubRepo.ListFailed(limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// GET /admin/suborders/:id/audit — ประวัติ action บน sub-order (ใหม่สุดก่อน)
func (pc *AdminPaymentController) SubOrderAuditTrail(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := pc.AuditRepo.ListForEntity("SubOrder", paramUint(c, "id"), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// POST /admin/suborders/:id/retry-payment
func (pc *AdminPaymentController) ManualRetry(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	out, err := pc.Payments.ManualRetry(c.Request.Context(), uid, paramUint(c, "id"))
	if err != nil {
		rpcFail(c, err)
		return
	}
	if !out.Success {
		c.JSON(200, gin.H{"success": false, "error": out.ErrorCode, "action": out.Action})
		return
	}
	rpcOK(c, gin.H{"action": out.Action})
}

// POST /admin/suborders/:id/flag-client-update
func (pc *AdminPaymentController) FlagClientUpdate(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if err := pc.Payments.MarkRequiresClientUpdate(uid, paramUint(c, "id")); err != nil {
		rpcFail(c, err)
		return
	}
	rpcOK(c, nil)
}

// POST /admin/suborders/:id/clear-client-update — ปลด flag + นัด retry ทันที
func (pc *AdminPaymentController) ClearClientUpdate(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if err := pc.Payments.ClearRequiresClientUpdate(uid, paramUint(c, "id")); err != nil {
		rpcFail(c, err)
		return
	}
	rpcOK(c, nil)
}

// POST /admin/suborders/:id/confirm — ยืนยันแล้วสั่ง capture
func (pc *AdminPaymentController) ConfirmSubOrder(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	subID := paramUint(c, "id")
	if err := pc.Orders.ConfirmSubOrder(uid, subID); err != nil {
		rpcFail(c, err)
		return
	}
	out, err := pc.Payments.CaptureSubOrder(c.Request.Context(), subID)
	if err != nil {
		rpcFail(c, err)
		return
	}
	rpcOK(c, gin.H{"capture": out})
}

// POST /admin/orders/:id/cancel
func (pc *AdminPaymentController) CancelOrder(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	if err := pc.Orders.CancelOrder(uid, paramUint(c, "id")); err != nil {
		rpcFail(c, err)
		return
	}
	rpcOK(c, nil)
}
