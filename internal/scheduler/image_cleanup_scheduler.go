package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/foodgram-backend/internal/metrics"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ImageKeyLister reports the image keys still referenced by recipes.
type ImageKeyLister interface {
	ListImageKeys() ([]string, error)
}

// ImageCleanupScheduler deletes recipe images that no recipe points at any more.
// Images younger than minAge are kept so an in-flight write never loses its file.
type ImageCleanupScheduler struct {
	cron     *cron.Cron
	schedule string
	minAge   time.Duration
	recipes  ImageKeyLister
	images   storage.ImageStorage
}

func NewImageCleanupScheduler(schedule string, minAge time.Duration, recipes ImageKeyLister, images storage.ImageStorage) *ImageCleanupScheduler {
	return &ImageCleanupScheduler{
		cron:     cron.New(),
		schedule: schedule,
		minAge:   minAge,
		recipes:  recipes,
		images:   images,
	}
}

// Start registers the sweep and starts the cron runner.
func (s *ImageCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled image cleanup", nil)

		deleted, err := s.Sweep(context.Background())
		if err != nil {
			logger.Error("Scheduled image cleanup failed", err)
			return
		}

		logger.Info("Scheduled image cleanup finished", map[string]interface{}{
			"deleted": deleted,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for image cleanup", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Image cleanup scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"min_age":  s.minAge.String(),
	})
	return nil
}

// Stop waits for a running sweep to finish.
func (s *ImageCleanupScheduler) Stop() {
	logger.Info("Stopping image cleanup scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Image cleanup scheduler stopped", nil)
}

// Sweep runs one cleanup pass and returns the number of deleted images.
func (s *ImageCleanupScheduler) Sweep(ctx context.Context) (int, error) {
	objects, err := s.images.List(ctx, storage.RecipeImageFolder)
	if err != nil {
		return 0, err
	}

	keys, err := s.recipes.ListImageKeys()
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]bool, len(keys))
	for _, key := range keys {
		referenced[key] = true
	}

	cutoff := time.Now().Add(-s.minAge)
	deleted := 0
	for _, obj := range objects {
		if referenced[obj.Key] || obj.ModifiedAt.After(cutoff) {
			continue
		}
		if err := s.images.Delete(ctx, obj.Key); err != nil {
			logger.Warn("Failed to delete orphaned image", map[string]interface{}{
				"key":   obj.Key,
				"error": err.Error(),
			})
			continue
		}
		deleted++
	}

	metrics.ImagesSweptTotal.Add(float64(deleted))
	logger.Debug("Image sweep pass complete", map[string]interface{}{
		"scanned": len(objects),
		"deleted": deleted,
	})
	return deleted, nil
}
