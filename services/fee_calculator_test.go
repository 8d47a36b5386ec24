package services

import (
	"math"
	"testing"
)

func TestParseFeeRateBasisPoints(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"empty", "", 500},
		{"whitespace", "   ", 500},
		{"non numeric", "abc", 500},
		{"negative", "-1", 500},
		{"over max", "10001", 500},
		{"zero", "0", 0},
		{"max", "10000", 10000},
		{"plain", "250", 250},
		{"float truncates", "500.5", 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseFeeRateBasisPoints(tc.raw, 500); got != tc.want {
				t.Fatalf("ParseFeeRateBasisPoints(%q) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestComputeFeeCents(t *testing.T) {
	cases := []struct {
		gross int64
		bps   int
		want  int64
	}{
		{9999, 500, 500}, // half rounds away from zero
		{10000, 500, 500},
		{0, 500, 0},
		{9999, 0, 0},
		{1, 500, 0},   // 0.05 → 0
		{10, 500, 1},  // 0.5 → 1
		{3600, 500, 180},
		{100, 10000, 100},
	}
	for _, tc := range cases {
		got, err := ComputeFeeCents(tc.gross, tc.bps)
		if err != nil {
			t.Fatalf("ComputeFeeCents(%d, %d): %v", tc.gross, tc.bps, err)
		}
		if got != tc.want {
			t.Fatalf("ComputeFeeCents(%d, %d) = %d, want %d", tc.gross, tc.bps, got, tc.want)
		}
	}
}

func TestComputeFeeCentsRejectsNegatives(t *testing.T) {
	if _, err := ComputeFeeCents(-1, 500); err == nil {
		t.Fatal("expected error for negative gross")
	}
	if _, err := ComputeFeeCents(100, -1); err == nil {
		t.Fatal("expected error for negative bps")
	}
}

func TestComputeFeeCentsMatchesRounding(t *testing.T) {
	// เทียบกับ float rounding ในช่วงกว้าง ๆ
	for gross := int64(0); gross <= 20000; gross += 37 {
		for _, bps := range []int{0, 1, 250, 500, 9999, 10000} {
			want := int64(math.Round(float64(gross) * float64(bps) / 10000))
			got, err := ComputeFeeCents(gross, bps)
			if err != nil {
				t.Fatalf("ComputeFeeCents(%d, %d): %v", gross, bps, err)
			}
			if got != want {
				t.Fatalf("ComputeFeeCents(%d, %d) = %d, want %d", gross, bps, got, want)
			}
		}
	}
}
