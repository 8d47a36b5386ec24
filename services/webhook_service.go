package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/repository"
)

// WebhookService reconcile event จาก processor เข้า stored state แบบ idempotent
// กติกา: หา record ไม่เจอ = log แล้วทิ้ง (retry ไม่ช่วย) / error ภายใน = คืน error
// ให้ transport ตอบ 5xx เพื่อให้ processor ส่งซ้ำ
type WebhookService struct {
	Clients *repository.ClientRepository
	Vendors *repository.VendorRepository
	Audit   AuditSink
	Log     *zap.SugaredLogger
}

func NewWebhookService(clients *repository.ClientRepository, vendors *repository.VendorRepository, audit AuditSink, log *zap.SugaredLogger) *WebhookService {
	return &WebhookService{Clients: clients, Vendors: vendors, Audit: audit, Log: log}
}

// HandleEvent รับ event ที่ verify signature แล้วเท่านั้น
func (s *WebhookService) HandleEvent(evt *WebhookEvent) error {
	switch evt.Type {
	case EventSetupSucceeded:
		return s.handleSetupSucceeded(evt)
	case EventPaymentMethodAttached:
		// log-only
		s.Log.Infow("payment method attached", "eventId", evt.ID, "customer", evt.CustomerID)
		return nil
	case EventAccountUpdated:
		return s.handleAccountUpdated(evt)
	default:
		s.Log.Debugw("unhandled webhook event type", "type", evt.Type, "eventId", evt.ID)
		return nil
	}
}

func (s *WebhookService) handleSetupSucceeded(evt *WebhookEvent) error {
	if evt.CustomerID == "" || evt.PaymentMethodID == "" {
		// payload ขาด field = warning ไม่ใช่ error
		s.Log.Warnw("setup succeeded event missing fields", "eventId", evt.ID)
		return nil
	}

	client, err := s.Clients.GetByStripeCustomerID(evt.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// data mismatch ถาวร — ส่งซ้ำก็ไม่เจอ
			s.Log.Warnw("setup succeeded for unknown customer", "customer", evt.CustomerID, "eventId", evt.ID)
			return nil
		}
		return fmt.Errorf("lookup client by customer id: %w", err)
	}

	if client.DefaultPaymentMethodID == evt.PaymentMethodID {
		// apply ไปแล้ว — no-op
		return nil
	}
	if err := s.Clients.UpdateDefaultPaymentMethod(client.ID, evt.PaymentMethodID); err != nil {
		return fmt.Errorf("update default payment method: %w", err)
	}
	s.Audit.LogSystemAction("Client", client.ID, "client.payment_method_updated", map[string]any{
		"paymentMethodId": evt.PaymentMethodID,
	})
	return nil
}

func (s *WebhookService) handleAccountUpdated(evt *WebhookEvent) error {
	if evt.AccountID == "" {
		s.Log.Warnw("account updated event missing account id", "eventId", evt.ID)
		return nil
	}

	vendor, err := s.Vendors.GetByStripeAccountID(evt.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Log.Warnw("account updated for unknown vendor", "account", evt.AccountID, "eventId", evt.ID)
			return nil
		}
		return fmt.Errorf("lookup vendor by account id: %w", err)
	}

	if vendor.ChargesEnabled == evt.ChargesEnabled && vendor.PayoutsEnabled == evt.PayoutsEnabled {
		return nil
	}
	if err := s.Vendors.UpdateCapabilities(vendor.ID, evt.ChargesEnabled, evt.PayoutsEnabled); err != nil {
		return fmt.Errorf("update vendor capabilities: %w", err)
	}
	s.Audit.LogSystemAction("Vendor", vendor.ID, "vendor.capabilities_updated", map[string]any{
		"chargesEnabled": evt.ChargesEnabled,
		"payoutsEnabled": evt.PayoutsEnabled,
	})
	return nil
}
