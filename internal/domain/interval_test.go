package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid", testNow.Add(time.Hour), testNow.Add(2 * time.Hour), false},
		{"starts now", testNow, testNow.Add(time.Hour), false},
		{"missing start", time.Time{}, testNow.Add(time.Hour), true},
		{"missing end", testNow.Add(time.Hour), time.Time{}, true},
		{"start in past", testNow.Add(-time.Minute), testNow.Add(time.Hour), true},
		{"end in past", testNow.Add(time.Hour), testNow.Add(-time.Hour), true},
		{"end equals start", testNow.Add(time.Hour), testNow.Add(time.Hour), true},
		{"end before start", testNow.Add(2 * time.Hour), testNow.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterval(tt.start, tt.end, testNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInterval)
				return
			}
			assert.NoError(t, err)
		})
	}
}
