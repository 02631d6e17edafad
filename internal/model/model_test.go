package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		name          string
		price         float64
		mode          string
		wantStatus    string
		wantPayStatus string
	}{
		{"free automated confirms immediately", 0, ModeAutomated, StatusConfirmed, PaymentNotRequired},
		{"free manual awaits review", 0, ModeManual, StatusPending, PaymentNotRequired},
		{"paid manual awaits review with payment", 500, ModeManual, StatusPending, PaymentPending},
		{"paid automated awaits payment", 500, ModeAutomated, StatusPaymentPending, PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payStatus := InitialStatus(tt.price, tt.mode)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantPayStatus, payStatus)
		})
	}
}

func TestAwaiting(t *testing.T) {
	assert.True(t, Awaiting(StatusPending))
	assert.True(t, Awaiting(StatusPaymentPending))
	assert.False(t, Awaiting(StatusConfirmed))
	assert.False(t, Awaiting(StatusRejected))
	assert.False(t, Awaiting(StatusCancelled))
}
