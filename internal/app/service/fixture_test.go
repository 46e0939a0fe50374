package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db           *gorm.DB
	images       *storage.LocalStorage
	users        repository.UserRepository
	recipeRepo   repository.RecipeRepository
	favoriteRepo repository.FavoriteRepository
	cartRepo     repository.ShoppingCartRepository

	author *model.User
	reader *model.User
	vegan  *model.Tag
	dinner *model.Tag
	flour  *model.Ingredient
	egg    *model.Ingredient
	milk   *model.Ingredient
}

func setupServiceTest(t *testing.T) *serviceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	f := &serviceFixture{
		db:           testDB,
		images:       storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/media"),
		users:        repository.NewUserRepository(testDB),
		recipeRepo:   repository.NewRecipeRepository(testDB),
		favoriteRepo: repository.NewFavoriteRepository(testDB),
		cartRepo:     repository.NewShoppingCartRepository(testDB),
		author:       &model.User{Email: "author@example.com", Username: "author", PasswordHash: "hash", Role: model.RoleUser},
		reader:       &model.User{Email: "reader@example.com", Username: "reader", PasswordHash: "hash", Role: model.RoleUser},
		vegan:        &model.Tag{Name: "Vegan", Color: "#00FF00", Slug: "vegan"},
		dinner:       &model.Tag{Name: "Dinner", Color: "#0000FF", Slug: "dinner"},
		flour:        &model.Ingredient{Name: "flour", MeasurementUnit: "g"},
		egg:          &model.Ingredient{Name: "egg", MeasurementUnit: "pcs"},
		milk:         &model.Ingredient{Name: "milk", MeasurementUnit: "ml"},
	}
	for _, row := range []interface{}{f.author, f.reader, f.vegan, f.dinner, f.flour, f.egg, f.milk} {
		require.NoError(t, testDB.Create(row).Error)
	}
	return f
}

func (f *serviceFixture) recipeService() RecipeService {
	return NewRecipeService(f.recipeRepo, f.favoriteRepo, f.cartRepo, f.images)
}

func (f *serviceFixture) listService() RecipeListService {
	return NewRecipeListService(f.recipeRepo, f.favoriteRepo, f.cartRepo)
}

// createRecipe writes a recipe directly through the repository.
func (f *serviceFixture) createRecipe(t *testing.T, name string, items ...model.OccurrenceInput) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		Name:        name,
		Text:        "Mix and bake.",
		Image:       "recipes/" + name + ".png",
		CookingTime: 20,
		AuthorID:    f.author.ID,
	}
	require.NoError(t, f.recipeRepo.Create(recipe, repository.RecipeComposition{
		TagIDs:      []uint{f.vegan.ID},
		Ingredients: items,
	}))
	return recipe
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
