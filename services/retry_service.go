package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HydraItalia/hydra-sub002/entity"
	"github.com/HydraItalia/hydra-sub002/repository"
)

// RetryService คือ sweep ที่ external trigger เรียกทุก 5 นาที
type RetryService struct {
	SubRepo  *repository.SubOrderRepository
	Payments *PaymentService
	Log      *zap.SugaredLogger

	MaxRetryAttempts int
	BatchSize        int

	Now func() time.Time
}

func NewRetryService(subRepo *repository.SubOrderRepository, payments *PaymentService, log *zap.SugaredLogger, maxRetryAttempts, batchSize int) *RetryService {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &RetryService{
		SubRepo: subRepo, Payments: payments, Log: log,
		MaxRetryAttempts: maxRetryAttempts, BatchSize: batchSize,
		Now: time.Now,
	}
}

type SweepItemResult struct {
	SubOrderID     uint   `json:"subOrderId"`
	SubOrderNumber string `json:"subOrderNumber"`
	Action         string `json:"action"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

type SweepResult struct {
	Success   bool              `json:"success"`
	Processed int               `json:"processed"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Duration  string            `json:"duration"`
	Results   []SweepItemResult `json:"results"`
}

// RunSweep ประมวลผลทีละราย — รายไหนพังห้ามลาก batch ที่เหลือพังตาม
func (s *RetryService) RunSweep(ctx context.Context) (*SweepResult, error) {
	started := s.Now()
	subs, err := s.SubRepo.ListRetryCandidates(started, s.MaxRetryAttempts, s.BatchSize)
	if err != nil {
		return nil, err
	}

	out := &SweepResult{Success: true, Results: []SweepItemResult{}}
	for i := range subs {
		sub := &subs[i]
		item := SweepItemResult{SubOrderID: sub.ID, SubOrderNumber: sub.SubOrderNumber}

		res := s.processOne(ctx, sub)
		item.Action = res.Action
		item.Success = res.Success
		if !res.Success && res.ErrorCode != "" {
			item.Error = res.ErrorCode
		}

		out.Processed++
		if item.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
		out.Results = append(out.Results, item)
	}

	out.Duration = s.Now().Sub(started).String()
	s.Log.Infow("payment retry sweep done",
		"processed", out.Processed, "succeeded", out.Succeeded, "failed", out.Failed, "duration", out.Duration)
	return out, nil
}

// processOne isolate panic/error ต่อราย
func (s *RetryService) processOne(ctx context.Context, sub *entity.SubOrder) (res *DispatchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Errorw("retry sweep item panicked", "subOrderNumber", sub.SubOrderNumber, "panic", r)
			res = &DispatchOutcome{Action: ActionSkip, Success: false, ErrorCode: fmt.Sprintf("panic: %v", r)}
		}
	}()

	out, err := s.Payments.RetrySweepOne(ctx, sub)
	if err != nil {
		s.Log.Errorw("retry sweep item failed", "subOrderNumber", sub.SubOrderNumber, "err", err)
		return &DispatchOutcome{Action: ActionSkip, Success: false, ErrorCode: err.Error()}
	}
	return out
}
