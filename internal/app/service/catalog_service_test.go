package service

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewTagService(repository.NewTagRepository(f.db))

	tag, err := svc.CreateTag(" Breakfast ", "#e26c2d", "breakfast")
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", tag.Name)
	assert.Equal(t, "#E26C2D", tag.Color)

	_, err = svc.CreateTag("Brunch", "#E26C2D", "brunch")
	assert.Error(t, err, "color is unique")

	tags, err := svc.ListTags()
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tg := range tags {
		names = append(names, tg.Name)
	}
	assert.Equal(t, []string{"Breakfast", "Dinner", "Vegan"}, names)

	got, err := svc.GetTag(tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Slug)

	_, err = svc.GetTag(999)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestIngredientService_Delete(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewIngredientService(repository.NewIngredientRepository(f.db))

	f.createRecipe(t, "omelette", model.OccurrenceInput{IngredientID: f.egg.ID, Amount: 3})

	assert.ErrorIs(t, svc.DeleteIngredient(f.egg.ID), ErrIngredientInUse)
	assert.ErrorIs(t, svc.DeleteIngredient(999), ErrIngredientNotFound)
	require.NoError(t, svc.DeleteIngredient(f.milk.ID))

	_, err := svc.GetIngredient(f.milk.ID)
	assert.ErrorIs(t, err, ErrIngredientNotFound)
}

func TestIngredientService_ListIngredients(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewIngredientService(repository.NewIngredientRepository(f.db))

	_, err := svc.CreateIngredient("Milk chocolate", "g")
	require.NoError(t, err)

	found, err := svc.ListIngredients(" MIL")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Milk chocolate", found[0].Name)
	assert.Equal(t, "milk", found[1].Name)
}

func TestIngredientService_ImportIngredients(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewIngredientService(repository.NewIngredientRepository(f.db))

	result, err := svc.ImportIngredients([]model.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "flour", MeasurementUnit: "kg"},
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: " sugar ", MeasurementUnit: "g"},
		{Name: "", MeasurementUnit: "g"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Read)
	assert.Equal(t, 2, result.Skipped)
	assert.EqualValues(t, 2, result.Inserted)

	all, err := svc.ListIngredients("")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
