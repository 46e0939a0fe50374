package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for recipe writes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // validation or missing reference
	OutcomeError    = "error"
)

var (
	// API Endpoint Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// Recipe Metrics
	RecipeWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Total number of recipe composite writes",
		},
		[]string{"operation", "outcome"}, // operation: create, replace, delete
	)

	ShoppingListDownloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of rendered shopping lists",
		},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Number of distinct ingredients in a rendered shopping list",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Image Cleanup Metrics
	ImagesSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_images_swept_total",
			Help: "Total number of unreferenced recipe images deleted",
		},
	)
)

// RecordHTTPRequest records an HTTP request metric
func RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecipeWrite records the outcome of a recipe create, replace or delete
func RecordRecipeWrite(operation, outcome string) {
	RecipeWritesTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordShoppingList records one rendered shopping list with its line count
func RecordShoppingList(lines int) {
	ShoppingListDownloadsTotal.Inc()
	ShoppingListLines.Observe(float64(lines))
}

// Middleware records every request under its route template, so /api/recipes/1/
// and /api/recipes/2/ share a series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
