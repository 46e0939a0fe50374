package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryRevocation keeps revoked token ids in a map.
type memoryRevocation struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevocation) BlacklistToken(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memoryRevocation) IsTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.SeedTags(testDB))

	mediaRoot := t.TempDir()
	cfg := &config.Config{
		Server:     config.ServerConfig{GinMode: gin.TestMode},
		JWT:        config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour},
		Storage:    config.StorageConfig{Driver: "local", MediaRoot: mediaRoot, MediaURL: "/media"},
		Pagination: config.PaginationConfig{PageSize: 6},
	}

	a := New(cfg, testDB, storage.NewLocalStorage(mediaRoot, "/media"), &memoryRevocation{revoked: map[string]bool{}})
	return &TestServer{Router: a.Engine, DB: testDB}
}

func (ts *TestServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (ts *TestServer) register(t *testing.T, email, username string) uint {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/users/", "", map[string]string{
		"email":      email,
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decode(t, w)["id"].(float64))
}

func (ts *TestServer) login(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/auth/token/login/", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["auth_token"].(string)
}

func (ts *TestServer) createIngredient(t *testing.T, token, name, unit string) uint {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/ingredients/", token, map[string]string{
		"name":             name,
		"measurement_unit": unit,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decode(t, w)["id"].(float64))
}

func tagIDs(t *testing.T, ts *TestServer) map[string]uint {
	t.Helper()
	w := ts.do(t, http.MethodGet, "/api/tags/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []model.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	ids := make(map[string]uint, len(tags))
	for _, tag := range tags {
		ids[tag.Slug] = tag.ID
	}
	return ids
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCompleteUserJourney(t *testing.T) {
	ts := setupIntegrationTest(t)

	// 1. Accounts
	t.Log("Step 1: Register and log in")
	ts.register(t, "admin@example.com", "admin")
	require.NoError(t, ts.DB.Model(&model.User{}).
		Where("email = ?", "admin@example.com").
		Update("role", model.RoleAdmin).Error)
	adminToken := ts.login(t, "admin@example.com")

	cookID := ts.register(t, "cook@example.com", "cook")
	cookToken := ts.login(t, "cook@example.com")
	ts.register(t, "reader@example.com", "reader")
	readerToken := ts.login(t, "reader@example.com")

	w := ts.do(t, http.MethodGet, "/api/users/me/", cookToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cook", decode(t, w)["username"])

	// 2. Catalog
	t.Log("Step 2: Admin fills the ingredient catalog")
	w = ts.do(t, http.MethodPost, "/api/ingredients/", cookToken, map[string]string{
		"name": "salt", "measurement_unit": "g",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	flour := ts.createIngredient(t, adminToken, "flour", "g")
	egg := ts.createIngredient(t, adminToken, "egg", "pcs")
	milk := ts.createIngredient(t, adminToken, "milk", "ml")
	tags := tagIDs(t, ts)
	require.NotZero(t, tags["breakfast"])
	require.NotZero(t, tags["dinner"])

	// 3. Recipes
	t.Log("Step 3: Create recipes")
	w = ts.do(t, http.MethodPost, "/api/recipes/", cookToken, map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"image":        pngDataURI(t),
		"cooking_time": 20,
		"tags":         []uint{tags["breakfast"], tags["dinner"]},
		"ingredients": []map[string]interface{}{
			{"id": flour, "amount": 200},
			{"id": egg, "amount": 2},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	recipeA := uint(created["id"].(float64))

	ingredients := created["ingredients"].([]interface{})
	require.Len(t, ingredients, 2)
	first := ingredients[0].(map[string]interface{})
	assert.Equal(t, float64(flour), first["id"])
	assert.Equal(t, "flour", first["name"])
	assert.Equal(t, "g", first["measurement_unit"])
	assert.Equal(t, float64(200), first["amount"])
	assert.Len(t, created["tags"], 2)
	assert.NotEmpty(t, created["image"])
	assert.Equal(t, false, created["is_favorited"])

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/", recipeA), cookToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode(t, w))

	w = ts.do(t, http.MethodPost, "/api/recipes/", cookToken, map[string]interface{}{
		"name":         "Milk bread",
		"text":         "Knead and bake.",
		"image":        pngDataURI(t),
		"cooking_time": 90,
		"tags":         []uint{tags["breakfast"]},
		"ingredients": []map[string]interface{}{
			{"id": flour, "amount": 100},
			{"id": milk, "amount": 250},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	recipeB := uint(decode(t, w)["id"].(float64))

	w = ts.do(t, http.MethodPatch, fmt.Sprintf("/api/recipes/%d/", recipeB), readerToken, map[string]interface{}{
		"name": "Stolen bread",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 4. Filters
	t.Log("Step 4: Favorites and filters")
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite/", recipeA), readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Pancakes", decode(t, w)["name"])

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite/", recipeA), readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/recipes/?is_favorited=1&tags=breakfast", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.Equal(t, float64(1), page["count"])
	results := page["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, true, results[0].(map[string]interface{})["is_favorited"])

	w = ts.do(t, http.MethodGet, "/api/recipes/?is_favorited=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])

	w = ts.do(t, http.MethodGet, "/api/recipes/?tags=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/?author=%d", cookID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	// 5. Shopping cart
	t.Log("Step 5: Shopping cart download")
	for _, id := range []uint{recipeA, recipeB} {
		w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart/", id), readerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "flour, g - 300\negg, pcs - 2\nmilk, ml - 250\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w = ts.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d/shopping_cart/", recipeA), readerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", readerToken, nil)
	assert.Equal(t, "flour, g - 100\nmilk, ml - 250\n", w.Body.String())

	// 6. Subscriptions
	t.Log("Step 6: Subscriptions")
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe/?recipes_limit=1", cookID), readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode(t, w)
	assert.Equal(t, true, sub["is_subscribed"])
	assert.Len(t, sub["recipes"], 1)

	w = ts.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe/", cookID), cookToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/api/users/subscriptions/?limit=1", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode(t, w)
	assert.Equal(t, float64(1), page["count"])
	assert.Nil(t, page["next"])
	assert.Nil(t, page["previous"])

	w = ts.do(t, http.MethodGet, "/api/users/subscriptions/?page=5", readerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/users/?limit=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode(t, w)
	assert.Equal(t, float64(3), page["count"])
	require.NotNil(t, page["next"])
	assert.Contains(t, page["next"], "page=2")

	// 7. Deletion
	t.Log("Step 7: Delete a recipe")
	w = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d/", recipeB), cookToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/", recipeB), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 8. Logout
	t.Log("Step 8: Log out")
	w = ts.do(t, http.MethodPost, "/api/auth/token/logout/", readerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodGet, "/api/users/me/", readerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])

	w = ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodgram_")
}
