package kernel_test

import (
	"testing"

	"foodfast/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	first := kernel.NewUUID()
	second := kernel.NewUUID()

	require.NoError(t, first.Validate())
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", first.String())
	assert.False(t, first.IsEqual(second))
}

func TestUUIDFromString(t *testing.T) {
	canonical := "550e8400-e29b-41d4-a716-446655440000"

	accepted := []struct {
		name  string
		input string
	}{
		{"canonical", canonical},
		{"braced", "{550e8400-e29b-41d4-a716-446655440000}"},
		{"urn prefixed", "urn:uuid:550e8400-e29b-41d4-a716-446655440000"},
		{"no hyphens", "550e8400e29b41d4a716446655440000"},
	}
	for _, tt := range accepted {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}

	rejected := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"garbage", "not-a-uuid"},
		{"truncated", "550e8400-e29b-41d4"},
		{"bad hex", "550e8400-e29b-41d4-a716-44665544zzzz"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kernel.UUIDFromString(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestUUIDFromBytes(t *testing.T) {
	source := uuid.New()

	id, err := kernel.UUIDFromBytes(source[:])
	require.NoError(t, err)
	assert.Equal(t, source.String(), id.String())
	assert.Equal(t, source, id.Bytes())

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x01, 0x02})
		assert.Error(t, err)
	})

	t.Run("rejects the nil uuid", func(t *testing.T) {
		var zero [16]byte
		_, err := kernel.UUIDFromBytes(zero[:])
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDRoundTrip(t *testing.T) {
	// what the persistence layer does: domain -> column value -> domain
	original := kernel.NewUUID()
	raw := original.Bytes()

	restored, err := kernel.UUIDFromBytes(raw[:])
	require.NoError(t, err)
	assert.True(t, original.IsEqual(restored))
}

func TestUUIDValidate(t *testing.T) {
	var zero kernel.UUID
	assert.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)

	assert.NoError(t, kernel.NewUUID().Validate())
}
