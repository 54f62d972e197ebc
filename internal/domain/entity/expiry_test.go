package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAttribute_ExpiryFlags(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		expiry      *time.Time
		wantExpired bool
		wantNear    bool
	}{
		{name: "no expiry date", expiry: nil},
		{name: "expired yesterday", expiry: day(2026, 10, 17), wantExpired: true},
		{name: "expires today", expiry: day(2026, 10, 18), wantNear: true},
		{name: "last day of window", expiry: day(2026, 11, 17), wantNear: true},
		{name: "first day after window", expiry: day(2026, 11, 18)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attribute{ExpiryDate: tt.expiry}
			assert.Equal(t, tt.wantExpired, a.IsExpired(now))
			assert.Equal(t, tt.wantNear, a.IsNearExpiry(now))
		})
	}
}

func TestPrescription_ValidityFlags(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    PrescriptionStatus
		expiry    *time.Time
		wantValid bool
		wantNear  bool
	}{
		{name: "active without expiry", status: PrescriptionStatusActive, wantValid: true},
		{name: "active expiring today", status: PrescriptionStatusActive, expiry: day(2026, 10, 18), wantValid: true, wantNear: true},
		{name: "active last day of window", status: PrescriptionStatusActive, expiry: day(2026, 10, 25), wantValid: true, wantNear: true},
		{name: "active after window", status: PrescriptionStatusActive, expiry: day(2026, 10, 26), wantValid: true},
		{name: "active expired yesterday", status: PrescriptionStatusActive, expiry: day(2026, 10, 17)},
		{name: "completed expiring today", status: PrescriptionStatusCompleted, expiry: day(2026, 10, 18)},
		{name: "cancelled without expiry", status: PrescriptionStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Prescription{Status: tt.status, ExpiryDate: tt.expiry}
			assert.Equal(t, tt.wantValid, p.IsValid(now))
			assert.Equal(t, tt.wantNear, p.IsNearingExpiry(now))
		})
	}
}
