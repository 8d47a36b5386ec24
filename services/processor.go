package services

import (
	"context"

	"github.com/HydraItalia/hydra-sub002/entity"
)

// ProcessorResult ผลจาก authorize/capture หนึ่งครั้ง
type ProcessorResult struct {
	Success      bool
	ChargeID     string
	ErrorCode    string
	ErrorMessage string
}

// PaymentProcessor คือ collaborator ฝั่ง payment gateway
// error = transport ล่ม (นับเป็น transient) / ProcessorResult = ผลทาง business
type PaymentProcessor interface {
	Authorize(ctx context.Context, sub *entity.SubOrder, idempotencyKey string) (*ProcessorResult, error)
	Capture(ctx context.Context, sub *entity.SubOrder, idempotencyKey string) (*ProcessorResult, error)
}
