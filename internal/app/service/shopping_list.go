package service

import (
	"fmt"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
)

// EmptyShoppingListMessage is rendered when the cart yields no ingredients.
const EmptyShoppingListMessage = "Your shopping list is empty.\n"

// ShoppingListItem is the total amount of one ingredient across the cart.
type ShoppingListItem struct {
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}

// AggregateCart folds cart occurrences into one item per ingredient id, in order of
// first appearance. Name and unit come from the first occurrence.
func AggregateCart(rows []model.CartIngredientRow) []ShoppingListItem {
	index := make(map[uint]int, len(rows))
	items := make([]ShoppingListItem, 0, len(rows))

	for _, row := range rows {
		if i, ok := index[row.IngredientID]; ok {
			items[i].Amount += row.Amount
			continue
		}
		index[row.IngredientID] = len(items)
		items = append(items, ShoppingListItem{
			IngredientID:    row.IngredientID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return items
}

// RenderShoppingList writes "name, unit - amount" lines, each ending in a newline.
func RenderShoppingList(items []ShoppingListItem) string {
	if len(items) == 0 {
		return EmptyShoppingListMessage
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s, %s - %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}
