package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	err := NewNotFoundError("Booking", 7)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "Booking with id = 7 not found", err.Error())
}

func TestAppError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load booking: %w", NewAlreadyApprovedError())

	assert.True(t, errors.Is(err, ErrAlreadyApproved))
	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyApproved, code)
}

func TestCodeOf_PlainError(t *testing.T) {
	_, ok := CodeOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		from, size int
		wantErr    bool
		wantOffset int
	}{
		{name: "first page", from: 0, size: 10, wantOffset: 0},
		{name: "aligned", from: 20, size: 10, wantOffset: 20},
		{name: "rounded down to page boundary", from: 5, size: 2, wantOffset: 4},
		{name: "negative from", from: -1, size: 10, wantErr: true},
		{name: "zero size", from: 0, size: 0, wantErr: true},
		{name: "negative size", from: 0, size: -3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPage(tt.from, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, tt.size, p.Limit())
		})
	}
}
