package sessionid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	assert.Len(t, id, Length)
	assert.NoError(t, Validate(id))
	assert.LessOrEqual(t, id[0], byte('7'))
}

func TestNewUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		require.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestNewTimeSorted(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, New())
		time.Sleep(time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s >= %s", ids[i-1], ids[i])
	}
}

func TestNewFromReader(t *testing.T) {
	id, err := NewFromReader(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))
	require.NoError(t, err)
	assert.NoError(t, Validate(id))

	_, err = NewFromReader(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		u := uuid.Must(uuid.NewV7())
		got, err := Decode(Encode(u))
		require.NoError(t, err)
		assert.Equal(t, u, got)
	}

	assert.Equal(t, strings.Repeat("0", Length), Encode(uuid.UUID{}))
	var all uuid.UUID
	for i := range all {
		all[i] = 0xff
	}
	assert.Equal(t, "7"+strings.Repeat("z", Length-1), Encode(all))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"generated", New(), false},
		{"too short", "0123", true},
		{"bad character", "0" + strings.Repeat("u", Length-1), true},
		{"overflow", "8" + strings.Repeat("0", Length-1), true},
		{"not version 7", strings.Repeat("0", Length), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
