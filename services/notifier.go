package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/HydraItalia/hydra-sub002/entity"
)

// Notifier: best-effort — order splitter กลืน error จากตรงนี้เสมอ
type Notifier interface {
	BuildOrderConfirmation(order *entity.Order, subs []entity.SubOrder) (string, error)
	SendOrderConfirmation(order *entity.Order, body string) error
}

// LogNotifier สำหรับ dev/test: log แทนส่งอีเมลจริง
type LogNotifier struct {
	Log *zap.SugaredLogger
}

func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier { return &LogNotifier{Log: log} }

func (n *LogNotifier) BuildOrderConfirmation(order *entity.Order, subs []entity.SubOrder) (string, error) {
	return fmt.Sprintf("order %s confirmed: %d vendor(s), total %d cents",
		order.OrderNumber, len(subs), order.TotalCents), nil
}

func (n *LogNotifier) SendOrderConfirmation(order *entity.Order, body string) error {
	n.Log.Infow("order confirmation", "orderNumber", order.OrderNumber, "body", body)
	return nil
}
