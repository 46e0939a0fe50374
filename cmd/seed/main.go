package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <ingredients.json|ingredients.xlsx> [--yes]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && (os.Args[2] == "--yes" || os.Args[2] == "-y")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading ingredient file: %s\n", filePath)
	ingredients, err := readIngredients(filePath)
	if err != nil {
		log.Fatal("Failed to read ingredients:", err)
	}
	fmt.Printf("Total ingredients to import: %d\n", len(ingredients))

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	ingredientService := service.NewIngredientService(repository.NewIngredientRepository(db.GetDB()))
	result, err := ingredientService.ImportIngredients(ingredients)
	if err != nil {
		log.Fatal("Failed to import ingredients:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Read: %d, skipped: %d, inserted: %d (existing pairs are left untouched)\n",
		result.Read, result.Skipped, result.Inserted)
}
