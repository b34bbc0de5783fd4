package combo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSteps() []Step {
	return []Step{
		{Moves: []Move{
			{Name: "Jab D ↑", Category: CategoryAttack, Variant: "up"},
			{Name: "Jab D ↓", Category: CategoryAttack, Variant: "down"},
		}},
		{Moves: []Move{{Name: "Slip E", Category: CategoryEvasion, Variant: "E"}}},
		{Moves: []Move{{Name: "Passo atrás", Category: CategoryFootwork}}},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
	}{
		{"multi step", sampleSteps()},
		{"single move", []Step{{Moves: []Move{{Name: "Jab", Category: CategoryAttack}}}}},
		{"empty step kept", []Step{{Moves: []Move{}}, {Moves: []Move{{Name: "Giro D", Category: CategoryFootwork, Variant: "D"}}}}},
		{"no steps", []Step{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := EncodeSteps(tt.steps)
			require.NoError(t, err)
			assert.Equal(t, tt.steps, DecodeSteps(blob))
		})
	}
}

func TestEncodeSteps_NilMovesBecomeArrays(t *testing.T) {
	blob, err := EncodeSteps([]Step{{}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"golpes":[]}]`, blob)

	blob, err = EncodeSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", blob)
}

func TestDecodeSteps_CorruptBlobYieldsEmptyList(t *testing.T) {
	for _, blob := range []string{"", "null", "{", "not json", `{"golpes":[]}`, `[{"golpes":"jab"}]`, `"[{\"golpes\""`} {
		t.Run(blob, func(t *testing.T) {
			steps := DecodeSteps(blob)
			assert.NotNil(t, steps)
			assert.Empty(t, steps)
		})
	}
}

func TestParseSteps_AcceptsArrayOrEncodedString(t *testing.T) {
	arr, err := json.Marshal(sampleSteps())
	require.NoError(t, err)
	str, err := json.Marshal(string(arr))
	require.NoError(t, err)

	fromArray, err := ParseSteps(arr)
	require.NoError(t, err)
	fromString, err := ParseSteps(str)
	require.NoError(t, err)

	assert.Equal(t, sampleSteps(), fromArray)
	assert.Equal(t, fromArray, fromString)
}

func TestParseSteps_Rejects(t *testing.T) {
	doubleEncoded, _ := json.Marshal(`"[]"`)
	for _, raw := range []string{"", "null", `{"golpes":[]}`, `"garbage"`, string(doubleEncoded)} {
		_, err := ParseSteps(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
}

func TestFinalize(t *testing.T) {
	t.Run("drops empty authoring steps", func(t *testing.T) {
		steps := append([]Step{{Moves: []Move{}}}, sampleSteps()...)
		steps = append(steps, Step{})

		out, err := Finalize(steps)
		require.NoError(t, err)
		assert.Equal(t, sampleSteps(), out)
	})

	t.Run("requires one step", func(t *testing.T) {
		_, err := Finalize([]Step{{Moves: []Move{}}})
		assert.Error(t, err)
	})

	t.Run("requires move names", func(t *testing.T) {
		_, err := Finalize([]Step{{Moves: []Move{{Name: " ", Category: CategoryAttack}}}})
		assert.ErrorContains(t, err, "no name")
	})

	t.Run("requires known categories", func(t *testing.T) {
		_, err := Finalize([]Step{{Moves: []Move{{Name: "Jab", Category: "SOCO"}}}})
		assert.ErrorContains(t, err, "unknown category")
	})
}

func TestStance_Valid(t *testing.T) {
	assert.True(t, StanceOrthodox.Valid())
	assert.True(t, StanceSouthpaw.Valid())
	assert.False(t, Stance("ambidestro").Valid())
}
