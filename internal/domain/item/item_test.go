package item

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareit-app/shareit-server/internal/platform/domain"
)

func ptr[T any](v T) *T { return &v }

func TestNewItem(t *testing.T) {
	it, err := NewItem(1, "Drill", "Cordless drill", true, nil)
	require.NoError(t, err)
	assert.True(t, it.IsOwnedBy(1))
	assert.True(t, it.Available())
	assert.Nil(t, it.RequestID())

	_, err = NewItem(1, " ", "desc", true, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewItem(1, strings.Repeat("n", 126), "desc", true, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewItem(1, "Drill", strings.Repeat("d", 251), true, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItem_Apply(t *testing.T) {
	it, err := NewItem(1, "Drill", "Cordless drill", true, nil)
	require.NoError(t, err)

	require.NoError(t, it.Apply(Patch{Available: ptr(false)}))
	assert.Equal(t, "Drill", it.Name())
	assert.False(t, it.Available())

	require.NoError(t, it.Apply(Patch{Name: ptr("Hammer drill"), RequestID: ptr(int64(3))}))
	assert.Equal(t, "Hammer drill", it.Name())
	assert.Equal(t, "Cordless drill", it.Description())
	assert.Equal(t, int64(3), *it.RequestID())

	err = it.Apply(Patch{Name: ptr(""), Available: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, it.Available(), "a rejected patch must not be applied partially")
}
