package service

import (
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrTagNotFound = errors.New("tag not found")

type TagService interface {
	ListTags() ([]model.Tag, error)
	GetTag(id uint) (*model.Tag, error)
	CreateTag(name, color, slug string) (*model.Tag, error)
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

// ListTags returns every tag ordered by name.
func (s *tagService) ListTags() ([]model.Tag, error) {
	return s.tagRepo.FindAll()
}

func (s *tagService) GetTag(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// CreateTag stores colors upper-cased so "#e26c2d" and "#E26C2D" collide on the unique index.
func (s *tagService) CreateTag(name, color, slug string) (*model.Tag, error) {
	tag := &model.Tag{
		Name:  strings.TrimSpace(name),
		Color: strings.ToUpper(color),
		Slug:  slug,
	}
	if err := s.tagRepo.Create(tag); err != nil {
		return nil, err
	}

	logger.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"slug":   tag.Slug,
	})
	return tag, nil
}
