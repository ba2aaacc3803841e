package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredient_Complete(t *testing.T) {
	assert.True(t, Ingredient{Name: "salt", Quantity: 0}.Complete())
	assert.False(t, Ingredient{Name: "  "}.Complete())
	assert.False(t, Ingredient{Name: "salt", Quantity: math.NaN()}.Complete())
	assert.False(t, Ingredient{Name: "salt", Quantity: math.Inf(1)}.Complete())
}

func TestIngredient_String(t *testing.T) {
	assert.Equal(t, "250 g flour", Ingredient{Name: "flour", Quantity: 250, Unit: "g"}.String())
	assert.Equal(t, "0.5 cup milk", Ingredient{Name: "milk", Quantity: 0.5, Unit: "cup"}.String())
	assert.Equal(t, "2 eggs", Ingredient{Name: "eggs", Quantity: 2}.String())
}

func TestCommit_ShortHash(t *testing.T) {
	assert.Equal(t, "0123456", Commit{Hash: "0123456789abcdef"}.ShortHash())
	assert.Equal(t, "abc", Commit{Hash: "abc"}.ShortHash())
}

func TestRecipeLog_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(RecipeLog{ID: "1714564800", RecipeID: "soup", Description: "ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1714564800","recipeId":"soup","description":"ok"}`, string(data))
}

func TestParseSyncDirection(t *testing.T) {
	d, err := ParseSyncDirection("push")
	require.NoError(t, err)
	assert.Equal(t, SyncPush, d)

	_, err = ParseSyncDirection("merge")
	assert.Error(t, err)
}
