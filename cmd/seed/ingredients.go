package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

// ingredientRecord is one entry of the JSON catalog.
type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func readIngredients(filePath string) ([]model.Ingredient, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return readIngredientsFromJSON(filePath)
	case ".xlsx":
		return readIngredientsFromXLSX(filePath)
	}
	return nil, fmt.Errorf("unsupported file type %q (want .json or .xlsx)", filepath.Ext(filePath))
}

// readIngredientsFromJSON reads [{"name": ..., "measurement_unit": ...}, ...].
func readIngredientsFromJSON(filePath string) ([]model.Ingredient, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}

	var records []ingredientRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse JSON file: %w", err)
	}

	ingredients := make([]model.Ingredient, 0, len(records))
	for _, r := range records {
		ingredients = append(ingredients, model.Ingredient{Name: r.Name, MeasurementUnit: r.MeasurementUnit})
	}
	return ingredients, nil
}

// readIngredientsFromXLSX reads the first sheet: a header row, then name and unit columns.
func readIngredientsFromXLSX(filePath string) ([]model.Ingredient, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	ingredients := make([]model.Ingredient, 0, len(rows)-1)
	for i, row := range rows {
		// header
		if i == 0 {
			continue
		}
		if len(row) < 2 {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{
			Name:            row[0],
			MeasurementUnit: row[1],
		})
	}
	return ingredients, nil
}
