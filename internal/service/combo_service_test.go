package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibeboxing/internal/combo"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/model"
	"vibeboxing/internal/repository/repotest"
)

const jabCross = `[{"golpes":[{"nome":"Jab D ↑","categoria":"ATAQUE","variacao":"up"}]},{"golpes":[]},{"golpes":[{"nome":"Direto E ↑","categoria":"ATAQUE","variacao":"up"}]}]`

func newComboService(t *testing.T) (ComboService, *repotest.Store) {
	t.Helper()
	store := repotest.NewStore()
	return NewComboService(store.Combos(), metrics.New()), store
}

func TestComboService_Create(t *testing.T) {
	encoded, err := json.Marshal(jabCross)
	require.NoError(t, err)

	tests := []struct {
		name          string
		draft         ComboDraft
		expectedSteps int
		expectedError error
	}{
		{
			name:          "steps as array drop empty steps",
			draft:         ComboDraft{Name: "Básico", Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(jabCross)},
			expectedSteps: 2,
		},
		{
			name:          "steps as encoded string",
			draft:         ComboDraft{Name: "Básico", Stance: combo.StanceSouthpaw, Guard: "philly", Steps: encoded},
			expectedSteps: 2,
		},
		{
			name:          "missing name",
			draft:         ComboDraft{Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(jabCross)},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "bad stance",
			draft:         ComboDraft{Name: "x", Stance: "ambidestro", Guard: "tradicional", Steps: json.RawMessage(jabCross)},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "only empty steps",
			draft:         ComboDraft{Name: "x", Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(`[{"golpes":[]}]`)},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "missing steps",
			draft:         ComboDraft{Name: "x", Stance: combo.StanceOrthodox, Guard: "tradicional"},
			expectedError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newComboService(t)
			view, err := svc.Create(context.Background(), 1, tt.draft)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, view)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, view.ID)
			assert.Len(t, view.Steps, tt.expectedSteps)
			assert.Equal(t, view.CreatedAt, view.UpdatedAt)
		})
	}
}

func TestComboService_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newComboService(t)

	mine, err := svc.Create(ctx, 1, ComboDraft{Name: "A", Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(jabCross)})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, apperrors.ErrComboNotFound)

	name := "stolen"
	_, err = svc.Update(ctx, 2, mine.ID, ComboPatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrComboNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 2, mine.ID), apperrors.ErrComboNotFound)

	list, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := svc.Get(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestComboService_UpdateKeepsOmittedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newComboService(t)

	created, err := svc.Create(ctx, 1, ComboDraft{Name: "A", Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(jabCross)})
	require.NoError(t, err)

	guard := "peekaboo"
	updated, err := svc.Update(ctx, 1, created.ID, ComboPatch{Guard: &guard})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, "peekaboo", updated.Guard)
	assert.Equal(t, created.Steps, updated.Steps)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	empty := ""
	_, err = svc.Update(ctx, 1, created.ID, ComboPatch{Name: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Update(ctx, 1, created.ID, ComboPatch{Steps: json.RawMessage(`[]`)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestComboService_ListOrderAndCorruptSteps(t *testing.T) {
	ctx := context.Background()
	svc, store := newComboService(t)

	first, err := svc.Create(ctx, 1, ComboDraft{Name: "first", Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(jabCross)})
	require.NoError(t, err)
	second, err := svc.Create(ctx, 1, ComboDraft{Name: "second", Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(jabCross)})
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	name := "first again"
	_, err = svc.Update(ctx, 1, first.ID, ComboPatch{Name: &name})
	require.NoError(t, err)

	list, err = svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, list[0].ID)

	corrupt := model.Combo{UserID: 1, Name: "broken", Stance: combo.StanceOrthodox, Guard: "x", StepsBlob: "{not json"}
	store.PutCombo(corrupt)

	list, err = svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	for _, v := range list {
		if v.Name == "broken" {
			assert.NotNil(t, v.Steps)
			assert.Empty(t, v.Steps)
		}
	}
}

func TestComboService_Stats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newComboService(t)

	st, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, combo.Stats{}, st)

	_, err = svc.Create(ctx, 1, ComboDraft{Name: "A", Stance: combo.StanceOrthodox, Guard: "tradicional", Steps: json.RawMessage(jabCross)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, ComboDraft{Name: "B", Stance: combo.StanceOrthodox, Guard: "tradicional",
		Steps: json.RawMessage(`[{"golpes":[{"nome":"Jab","categoria":"ATAQUE"},{"nome":"Slip E","categoria":"ESQUIVA"},{"nome":"Giro D","categoria":"FOOTWORK"}]}]`)})
	require.NoError(t, err)

	st, err = svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, combo.Stats{TotalCombos: 2, LongestSequence: 3, TotalMoves: 5}, st)
}
