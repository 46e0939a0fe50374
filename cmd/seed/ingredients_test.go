package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadIngredientsFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingredients.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "flour", "measurement_unit": "g"},
		{"name": "egg", "measurement_unit": "pcs"}
	]`), 0o644))

	ingredients, err := readIngredients(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "egg", MeasurementUnit: "pcs"},
	}, ingredients)
}

func TestReadIngredientsFromXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"name", "measurement_unit"},
		{"milk", "ml"},
		{"short row"},
		{"salt", "g"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "ingredients.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ingredients, err := readIngredients(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Ingredient{
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "salt", MeasurementUnit: "g"},
	}, ingredients)
}

func TestReadIngredients_UnsupportedType(t *testing.T) {
	_, err := readIngredients("ingredients.csv")
	assert.Error(t, err)
}

func TestReadIngredientsFromJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "flour"}`), 0o644))

	_, err := readIngredients(path)
	assert.Error(t, err)
}
