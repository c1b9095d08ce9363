package shoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePenetration(t *testing.T) {
	tests := []struct {
		input    string
		want     Penetration
		wantErr  bool
		asString string
	}{
		{input: "full", want: FullShoe(), asString: "full"},
		{input: "", want: FullShoe(), asString: "full"},
		{input: "Random", want: RandomPenetration(), asString: "random"},
		{input: "0.75", want: FixedPercentage(0.75), asString: "0.75"},
		{input: "60%", want: FixedPercentage(0.6), asString: "0.6"},
		{input: "1", want: FixedPercentage(1), asString: "1"},
		{input: "0", wantErr: true},
		{input: "1.2", wantErr: true},
		{input: "deep", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePenetration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.asString, got.String())
		})
	}
}

func TestPenetrationVariants(t *testing.T) {
	var zero Penetration
	assert.True(t, zero.IsFull())
	assert.True(t, RandomPenetration().IsRandom())
	assert.Equal(t, 0.0, RandomPenetration().Fraction())
	assert.Equal(t, 0.7, FixedPercentage(0.7).Fraction())
	assert.False(t, FixedPercentage(-0.1).Valid())
	assert.True(t, FullShoe().Valid())
}
