package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/foodgram-backend/config"
)

// RecipeImageFolder holds every recipe image key.
const RecipeImageFolder = "recipes"

var ErrUnknownDriver = errors.New("unknown storage driver")

// Object is a stored file as reported by List.
type Object struct {
	Key        string
	ModifiedAt time.Time
}

// ImageStorage stores binary assets under server-assigned keys.
type ImageStorage interface {
	// Save writes data under a fresh "<folder>/<uuid>.<ext>" key and returns the key.
	Save(ctx context.Context, folder, ext string, data []byte) (string, error)
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, folder string) ([]Object, error)
	// URL returns the public link for key.
	URL(key string) string
}

// New builds the storage selected by cfg.Driver.
func New(ctx context.Context, cfg *config.StorageConfig, publicBaseURL string) (ImageStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.MediaRoot, publicBaseURL+cfg.MediaURL), nil
	case "s3":
		return NewS3Storage(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
}

func newKey(folder, ext string) string {
	return fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), ext)
}
