package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"call": Call, "CALL": Call, " c ": Call,
		"put": Put, "Put": Put, "p": Put,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("straddle")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(OptionSpec{Strike: 100, Kind: Put})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"put"`)

	var spec OptionSpec
	require.NoError(t, json.Unmarshal([]byte(`{"strike":90,"kind":"call"}`), &spec))
	assert.Equal(t, Call, spec.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"iron condor"}`), &spec))
}
