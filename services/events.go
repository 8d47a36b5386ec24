package services

import (
	"go.uber.org/zap"
)

// Domain events แทนการ revalidate cache ฝั่ง UI ตรง ๆ
// presentation layer subscribe เอาเอง

type OrderCreated struct {
	OrderID     uint
	OrderNumber string
	TotalCents  int64
	SubOrderIDs []uint
}

type PaymentStateChanged struct {
	SubOrderID     uint
	SubOrderNumber string
	From           string
	To             string
	ErrorCode      string
}

type EventPublisher interface {
	Publish(event any)
}

// LogPublisher: default publisher — log อย่างเดียว
type LogPublisher struct {
	Log *zap.SugaredLogger
}

func NewLogPublisher(log *zap.SugaredLogger) *LogPublisher { return &LogPublisher{Log: log} }

func (p *LogPublisher) Publish(event any) {
	p.Log.Debugw("domain event", "event", event)
}
