package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Foodie-App/internal/domain/model"
)

func newDefaultFilterState(t *testing.T, opts FilterStateOptions) *FilterState {
	t.Helper()
	state, err := NewFilterState(model.GetDefaultFilterCategories(), opts)
	require.NoError(t, err)
	return state
}

func TestFilterState_Toggle(t *testing.T) {
	t.Run("2回トグルすると元に戻り、他の選択肢は変わらない", func(t *testing.T) {
		state := newDefaultFilterState(t, FilterStateOptions{})
		require.True(t, state.Toggle("cuisine", "bbq"))
		before := state.Categories()

		require.True(t, state.Toggle("cuisine", "japanese"))
		require.True(t, state.Toggle("cuisine", "japanese"))

		assert.Equal(t, before, state.Categories())
	})

	t.Run("存在しない選択肢は false", func(t *testing.T) {
		state := newDefaultFilterState(t, FilterStateOptions{})
		assert.False(t, state.Toggle("cuisine", "unknown"))
		assert.False(t, state.Toggle("unknown", "bbq"))
		assert.Empty(t, state.ActiveFilters())
	})

	t.Run("評価はデフォルトで複数選択", func(t *testing.T) {
		state := newDefaultFilterState(t, FilterStateOptions{})
		state.Toggle("rating", "4star")
		state.Toggle("rating", "5star")
		assert.ElementsMatch(t, []int{4, 5}, state.Selection().Ratings)
	})

	t.Run("SingleSelectRating では最後に選んだ評価だけ残る", func(t *testing.T) {
		state := newDefaultFilterState(t, FilterStateOptions{SingleSelectRating: true})
		state.Toggle("rating", "4star")
		state.Toggle("rating", "5star")
		state.Toggle("cuisine", "bbq")
		assert.Equal(t, []int{5}, state.Selection().Ratings)
		assert.Equal(t, []string{"bbq"}, state.Selection().TagIDs)
	})
}

func TestFilterState_ActiveFilters(t *testing.T) {
	state := newDefaultFilterState(t, FilterStateOptions{})
	state.Toggle("rating", "4star")
	state.Toggle("dietary", "halal")
	state.Toggle("cuisine", "desserts")
	state.Toggle("cuisine", "desi")

	first := state.ActiveFilters()
	second := state.ActiveFilters()
	assert.Equal(t, first, second)

	// カテゴリ順 → 選択肢順
	assert.Equal(t, []string{"Desi", "Desserts", "Halal", "4 Stars"}, state.ActiveLabels())
	assert.Equal(t, model.ActiveFilter{CategoryID: "cuisine", OptionID: "desi", Label: "Desi"}, first[0])
}

func TestFilterState_ResetAndRemove(t *testing.T) {
	state := newDefaultFilterState(t, FilterStateOptions{})
	state.Toggle("cuisine", "cafe")
	state.Toggle("amenities", "wifi")

	state.RemoveByLabel("Wi-Fi")
	assert.Equal(t, []string{"Cafe"}, state.ActiveLabels())

	state.RemoveByLabel("does not exist")
	assert.Equal(t, []string{"Cafe"}, state.ActiveLabels())

	state.Reset()
	assert.Empty(t, state.ActiveFilters())
	state.Reset()
	assert.Empty(t, state.ActiveFilters())
}

func TestFilterState_RemoveByLabelAcrossCategories(t *testing.T) {
	seed := []model.FilterCategory{
		{ID: "a", Name: "A", Options: []model.FilterOption{{ID: "x", Label: "Shared"}}},
		{ID: "b", Name: "B", Options: []model.FilterOption{{ID: "y", Label: "Shared"}, {ID: "z", Label: "Other"}}},
	}
	state, err := NewFilterState(seed, FilterStateOptions{})
	require.NoError(t, err)
	state.Toggle("a", "x")
	state.Toggle("b", "y")
	state.Toggle("b", "z")

	state.RemoveByLabel("Shared")
	assert.Equal(t, []string{"Other"}, state.ActiveLabels())
}

func TestFilterState_Selection(t *testing.T) {
	seed := []model.FilterCategory{
		{ID: "cuisine", Name: "Cuisine", Options: []model.FilterOption{{ID: "bbq", Label: "BBQ"}}},
		{ID: "specials", Name: "Specials", Options: []model.FilterOption{{ID: "bbq", Label: "BBQ Night"}}},
		{ID: "stars", Name: "Rating", Options: []model.FilterOption{{ID: "4star", Label: "4"}, {ID: "top", Label: "Top"}}},
	}
	state, err := NewFilterState(seed, FilterStateOptions{})
	require.NoError(t, err)
	state.Toggle("cuisine", "bbq")
	state.Toggle("specials", "bbq")
	state.Toggle("stars", "4star")
	state.Toggle("stars", "top")

	selection := state.Selection()
	assert.Equal(t, []string{"bbq"}, selection.TagIDs)
	assert.Equal(t, []int{4}, selection.Ratings)
}

func TestNewFilterState_DuplicateCategory(t *testing.T) {
	seed := []model.FilterCategory{{ID: "cuisine"}, {ID: "cuisine"}}
	_, err := NewFilterState(seed, FilterStateOptions{})
	assert.True(t, errors.Is(err, ErrDuplicateCategory))
}

func TestNewFilterState_DoesNotMutateSeed(t *testing.T) {
	seed := model.GetDefaultFilterCategories()
	state, err := NewFilterState(seed, FilterStateOptions{})
	require.NoError(t, err)
	state.Toggle("cuisine", "bbq")

	for _, o := range seed[0].Options {
		assert.False(t, o.Selected)
	}
}
