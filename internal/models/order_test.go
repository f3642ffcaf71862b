package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMode(t *testing.T) {
	tests := []struct {
		in     string
		want   PaymentMode
		wantOK bool
	}{
		{"Cash", PaymentCash, true},
		{"cash", PaymentCash, true},
		{"UPI", PaymentUPI, true},
		{"upi", PaymentUPI, true},
		{"CARD", PaymentCard, true},
		{" online ", PaymentOnline, true},
		{"", PaymentOnline, true},
		{"cheque", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePaymentMode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKitchenStatus(t *testing.T) {
	s, ok := ParseKitchenStatus("READY")
	assert.True(t, ok)
	assert.Equal(t, KitchenReady, s)

	s, ok = ParseKitchenStatus("preparing")
	assert.True(t, ok)
	assert.Equal(t, KitchenPreparing, s)

	_, ok = ParseKitchenStatus("served")
	assert.False(t, ok)
}

func TestNeedsNotification(t *testing.T) {
	preparing := KitchenPreparing
	ready := KitchenReady

	assert.False(t, NeedsNotification(nil, OrderPending))
	assert.False(t, NeedsNotification(&preparing, OrderPending))
	assert.True(t, NeedsNotification(&ready, OrderPending))
	assert.False(t, NeedsNotification(&ready, OrderCompleted))
}

func TestNewReorderAlert(t *testing.T) {
	assert.Nil(t, NewReorderAlert(6, 5))

	alert := NewReorderAlert(5, 5)
	if assert.NotNil(t, alert) {
		assert.Equal(t, 5, alert.CurrentQuantity)
		assert.Contains(t, alert.Message, "reorder level 5")
	}

	assert.NotNil(t, NewReorderAlert(0, 0))
}
