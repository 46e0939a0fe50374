package repository

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeListRepository_Membership(t *testing.T) {
	f := setupRecipeTest(t)
	recipe := f.create(t, "salad", []uint{f.vegan.ID}, model.OccurrenceInput{IngredientID: f.egg.ID, Amount: 1})
	other := f.create(t, "stew", []uint{f.dinner.ID}, model.OccurrenceInput{IngredientID: f.milk.ID, Amount: 1})

	lists := []RecipeListRepository{NewFavoriteRepository(f.db), NewShoppingCartRepository(f.db)}

	for _, repo := range lists {
		t.Run(string(repo.List()), func(t *testing.T) {
			ok, err := repo.Contains(f.reader.ID, recipe.ID)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, repo.Add(f.reader.ID, recipe.ID))

			ok, err = repo.Contains(f.reader.ID, recipe.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			// the pair is unique at the storage layer
			assert.Error(t, repo.Add(f.reader.ID, recipe.ID))

			members, err := repo.ContainsAmong(f.reader.ID, []uint{recipe.ID, other.ID})
			require.NoError(t, err)
			assert.Equal(t, map[uint]bool{recipe.ID: true}, members)

			removed, err := repo.Remove(f.reader.ID, recipe.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = repo.Remove(f.reader.ID, recipe.ID)
			require.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestRecipeListRepository_ListsAreIndependent(t *testing.T) {
	f := setupRecipeTest(t)
	recipe := f.create(t, "salad", []uint{f.vegan.ID}, model.OccurrenceInput{IngredientID: f.egg.ID, Amount: 1})

	favorites := NewFavoriteRepository(f.db)
	cart := NewShoppingCartRepository(f.db)

	require.NoError(t, favorites.Add(f.reader.ID, recipe.ID))

	inCart, err := cart.Contains(f.reader.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, inCart)

	members, err := cart.ContainsAmong(0, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestShoppingCartRepository_CartIngredients(t *testing.T) {
	f := setupRecipeTest(t)
	cart := NewShoppingCartRepository(f.db)

	recipeA := f.create(t, "a", []uint{f.vegan.ID},
		model.OccurrenceInput{IngredientID: f.flour.ID, Amount: 200},
		model.OccurrenceInput{IngredientID: f.egg.ID, Amount: 2},
	)
	recipeB := f.create(t, "b", []uint{f.vegan.ID},
		model.OccurrenceInput{IngredientID: f.flour.ID, Amount: 100},
		model.OccurrenceInput{IngredientID: f.milk.ID, Amount: 250},
	)
	notInCart := f.create(t, "c", []uint{f.vegan.ID},
		model.OccurrenceInput{IngredientID: f.egg.ID, Amount: 12},
	)

	rows, err := cart.CartIngredients(f.reader.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, cart.Add(f.reader.ID, recipeA.ID))
	require.NoError(t, cart.Add(f.reader.ID, recipeB.ID))
	require.NoError(t, cart.Add(f.author.ID, notInCart.ID))

	rows, err = cart.CartIngredients(f.reader.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.CartIngredientRow{
		{IngredientID: f.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200},
		{IngredientID: f.egg.ID, Name: "egg", MeasurementUnit: "pcs", Amount: 2},
		{IngredientID: f.flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 100},
		{IngredientID: f.milk.ID, Name: "milk", MeasurementUnit: "ml", Amount: 250},
	}, rows)
}
