package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HydraItalia/hydra-sub002/services"
)

type WebhookController struct {
	Webhooks *services.WebhookService
	Secret   string
	Log      *zap.SugaredLogger
}

func NewWebhookController(webhooks *services.WebhookService, secret string, log *zap.SugaredLogger) *WebhookController {
	return &WebhookController{Webhooks: webhooks, Secret: secret, Log: log}
}

// POST /api/stripe/webhooks
// signature ไม่ผ่าน → 400 ก่อนแตะ state ใด ๆ
// error ภายใน → 500 ให้ processor ส่งซ้ำ
func (wc *WebhookController) Receive(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	evt, err := services.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"), wc.Secret, time.Now())
	if err != nil {
		wc.Log.Warnw("webhook rejected", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := wc.Webhooks.HandleEvent(evt); err != nil {
		wc.Log.Errorw("webhook handling failed", "eventId", evt.ID, "type", evt.Type, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
