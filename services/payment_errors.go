package services

import (
	"time"
)

// DefaultMaxRetryAttempts จำนวนครั้งสูงสุดก่อนหยุด auto-retry
const DefaultMaxRetryAttempts = 3

// AuthorizationWindow อายุของ authorization hold ฝั่ง processor
const AuthorizationWindow = 7 * 24 * time.Hour

// ErrCodeChargeExpired: authorization หมดอายุก่อน capture → terminal
const ErrCodeChargeExpired = "charge_expired_for_capture"

// terminal = ลูกค้าต้องแก้ payment method เอง ไม่มีประโยชน์ที่จะ retry
var terminalErrorCodes = map[string]bool{
	"card_declined":          true,
	"expired_card":           true,
	"incorrect_cvc":          true,
	"insufficient_funds":     true,
	"account_closed":         true,
	"payment_method_invalid": true,
	ErrCodeChargeExpired:     true,
}

// IsRetryableErrorCode: โค้ดที่ไม่รู้จักถือว่า transient (network/processor blip)
func IsRetryableErrorCode(code string) bool {
	return !terminalErrorCodes[code]
}

// IsAuthorizationExpired: nil = ยังไม่เคย authorize → ไม่นับว่าหมดอายุ
func IsAuthorizationExpired(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return false
	}
	return expiresAt.Before(now)
}

// NextRetryAt คำนวณรอบถัดไป: 15 นาที คูณสองตามจำนวน attempt, cap 24 ชม.
func NextRetryAt(now time.Time, attemptCount int) time.Time {
	delay := 15 * time.Minute
	for i := 1; i < attemptCount; i++ {
		delay *= 2
		if delay >= 24*time.Hour {
			delay = 24 * time.Hour
			break
		}
	}
	return now.Add(delay)
}
