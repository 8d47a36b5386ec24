package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HydraItalia/hydra-sub002/entity"
)

// SandboxProcessor สำหรับ dev: อนุมัติทุกครั้ง ไม่ยิงออกนอกระบบ
// production wiring เสียบ implementation จริงผ่าน PaymentProcessor interface
type SandboxProcessor struct {
	Log *zap.SugaredLogger
}

func NewSandboxProcessor(log *zap.SugaredLogger) *SandboxProcessor {
	return &SandboxProcessor{Log: log}
}

func (p *SandboxProcessor) Authorize(_ context.Context, sub *entity.SubOrder, idempotencyKey string) (*ProcessorResult, error) {
	chargeID := "ch_sandbox_" + uuid.NewString()
	p.Log.Infow("sandbox authorize", "subOrderNumber", sub.SubOrderNumber, "idempotencyKey", idempotencyKey, "chargeId", chargeID)
	return &ProcessorResult{Success: true, ChargeID: chargeID}, nil
}

func (p *SandboxProcessor) Capture(_ context.Context, sub *entity.SubOrder, idempotencyKey string) (*ProcessorResult, error) {
	p.Log.Infow("sandbox capture", "subOrderNumber", sub.SubOrderNumber, "idempotencyKey", idempotencyKey)
	return &ProcessorResult{Success: true}, nil
}
