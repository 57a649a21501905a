package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMortalEra(t *testing.T) {
	cases := []struct {
		name           string
		first, second  byte
		wantImmortal   bool
		wantPeriod     uint64
		wantPhase      uint64
	}{
		{name: "period 64 phase 32", first: 0x05, second: 0x02, wantPeriod: 64, wantPhase: 32},
		{name: "min exponent", first: 0x00, second: 0x00, wantPeriod: 2, wantPhase: 0},
		{name: "invalid phase downgrades to immortal", first: 0x00, second: 0xff, wantImmortal: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			era := NewMortalEra(tc.first, tc.second)
			if tc.wantImmortal {
				assert.True(t, era.Immortal)
				return
			}
			require.False(t, era.Immortal)
			assert.Equal(t, tc.wantPeriod, era.Period)
			assert.Equal(t, tc.wantPhase, era.Phase)
			assert.NoError(t, era.Validate())
		})
	}
}

func TestEraValidate(t *testing.T) {
	assert.NoError(t, ImmortalEra.Validate())

	bad := Era{Period: 3, Phase: 1}
	assert.Error(t, bad.Validate())

	badPhase := Era{Period: 4, Phase: 4}
	assert.Error(t, badPhase.Validate())

	ok := Era{Period: 16, Phase: 5}
	assert.NoError(t, ok.Validate())
}
