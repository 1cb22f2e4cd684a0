package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	assert.NoError(t, validateString("records", "kind"))
	assert.ErrorIs(t, validateString("", "kind"), ErrEmptyString)
	assert.ErrorIs(t, validateString(" \t", "kind"), ErrEmptyString)
}

func TestValidateActivity(t *testing.T) {
	tests := []struct {
		activity *Activity
		name     string
		wantErr  error
	}{
		{name: "nil", activity: nil, wantErr: ErrNilParameter},
		{name: "missing action", activity: &Activity{Subject: "record"}, wantErr: ErrInvalidAction},
		{name: "missing subject", activity: &Activity{Action: ActionCreate}, wantErr: ErrInvalidAction},
		{name: "valid", activity: &Activity{Action: ActionCreate, Subject: "record"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateActivity(tt.activity)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
