package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/HydraItalia/hydra-sub002/services"
)

// JobsController: endpoint ให้ external scheduler เรียก (cron ทุก 5 นาที)
type JobsController struct {
	Retry *services.RetryService
	Log   *zap.SugaredLogger
}

func NewJobsController(retry *services.RetryService, log *zap.SugaredLogger) *JobsController {
	return &JobsController{Retry: retry, Log: log}
}

// GET|POST /api/jobs/payment-retry
func (jc *JobsController) PaymentRetry(c *gin.Context) {
	out, err := jc.Retry.RunSweep(c.Request.Context())
	if err != nil {
		jc.Log.Errorw("payment retry sweep failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "sweep failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}
