package model

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{RequestPending, RequestApproved},
		{RequestPending, RequestRejected},
		{RequestApproved, RequestDelivered},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("CanTransition(%s, %s) = false", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{RequestPending, RequestDelivered},
		{RequestApproved, RequestRejected},
		{RequestApproved, RequestPending},
		{RequestRejected, RequestApproved},
		{RequestRejected, RequestDelivered},
		{RequestDelivered, RequestPending},
		{RequestDelivered, RequestDelivered},
		{"", RequestApproved},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("CanTransition(%s, %s) = true", tc.from, tc.to)
		}
	}
}
