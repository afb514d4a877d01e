package model

import "testing"

func TestPayAmountCents(t *testing.T) {
	cases := []struct {
		present, half int
		rate          uint32
		want          uint64
	}{
		{0, 0, 15000, 0},
		{20, 0, 15000, 300000},
		{0, 4, 15000, 30000},
		{10, 3, 15000, 172500},
		{1, 1, 1, 1}, // half a cent rounds down
		{-2, -3, 15000, 0},
	}
	for _, tc := range cases {
		got := PayAmountCents(tc.present, tc.half, tc.rate)
		if got != tc.want {
			t.Fatalf("PayAmountCents(%d, %d, %d) = %d, want %d",
				tc.present, tc.half, tc.rate, got, tc.want)
		}
	}
}
