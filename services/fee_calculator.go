package services

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultFeeRateBps ค่า default 5%
const DefaultFeeRateBps = 500

var ErrInvalidFeeInput = errors.New("fee inputs must be non-negative")

// ParseFeeRateBasisPoints แปลง config string → bps
// คืน fallback ถ้า raw หายไป / ไม่ใช่ตัวเลข / ติดลบ / เกิน 10000
func ParseFeeRateBasisPoints(raw string, fallback int) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	bps := int(f) // truncate "500.5" → 500
	if bps < 0 || bps > 10000 {
		return fallback
	}
	return bps
}

// ComputeFeeCents คิดค่าธรรมเนียม = round(grossCents * feeBps / 10000)
// ปัดแบบ half away from zero
func ComputeFeeCents(grossCents int64, feeBps int) (int64, error) {
	if grossCents < 0 || feeBps < 0 {
		return 0, ErrInvalidFeeInput
	}
	if grossCents == 0 || feeBps == 0 {
		return 0, nil
	}
	return (grossCents*int64(feeBps) + 5000) / 10000, nil
}
