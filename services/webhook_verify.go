package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook event types
const (
	EventSetupSucceeded        = "setup_intent.succeeded"
	EventPaymentMethodAttached = "payment_method.attached"
	EventAccountUpdated        = "account.updated"
)

// WebhookEvent คือ event ที่ verify แล้วจาก processor
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	CustomerID      string `json:"customerId"`
	PaymentMethodID string `json:"paymentMethodId"`
	AccountID       string `json:"accountId"`
	ChargesEnabled  bool   `json:"chargesEnabled"`
	PayoutsEnabled  bool   `json:"payoutsEnabled"`
}

var (
	ErrBadSignature   = errors.New("webhook signature verification failed")
	ErrStaleTimestamp = errors.New("webhook timestamp outside tolerance")
	ErrBadPayload     = errors.New("webhook payload is not valid JSON")
)

// signatureTolerance กัน replay เก่า ๆ
const signatureTolerance = 5 * time.Minute

// VerifyWebhook ตรวจ header รูปแบบ "t=<unix>,v1=<hex hmac>"
// signed payload = "<t>.<body>" ด้วย HMAC-SHA256
// ต้องผ่านก่อนแตะ state ใด ๆ
func VerifyWebhook(payload []byte, sigHeader, secret string, now time.Time) (*WebhookEvent, error) {
	if sigHeader == "" || secret == "" {
		return nil, ErrBadSignature
	}

	var ts int64
	var sigs []string
	for _, part := range strings.Split(sigHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, ErrBadSignature
			}
			ts = n
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return nil, ErrBadSignature
	}
	if d := now.Sub(time.Unix(ts, 0)); d > signatureTolerance || d < -signatureTolerance {
		return nil, ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := false
	for _, s := range sigs {
		if hmac.Equal([]byte(expected), []byte(s)) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrBadSignature
	}

	return parseWebhookEvent(payload)
}

// wire shape ตาม processor: data.object ข้างใน envelope
type webhookEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			Customer       string `json:"customer"`
			PaymentMethod  string `json:"payment_method"`
			Account        string `json:"account"`
			ChargesEnabled bool   `json:"charges_enabled"`
			PayoutsEnabled bool   `json:"payouts_enabled"`
		} `json:"object"`
	} `json:"data"`
}

func parseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, ErrBadPayload
	}
	if env.Type == "" {
		return nil, ErrBadPayload
	}
	return &WebhookEvent{
		ID:              env.ID,
		Type:            env.Type,
		CustomerID:      env.Data.Object.Customer,
		PaymentMethodID: env.Data.Object.PaymentMethod,
		AccountID:       env.Data.Object.Account,
		ChargesEnabled:  env.Data.Object.ChargesEnabled,
		PayoutsEnabled:  env.Data.Object.PayoutsEnabled,
	}, nil
}
