package service

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
)

// NoRecipesLimit lists every recipe of an author.
const NoRecipesLimit = -1

// AuthorSummary is an author with a preview of their recipes.
type AuthorSummary struct {
	Author       model.User
	Recipes      []model.Recipe
	RecipesCount int64
}

type UserService interface {
	GetUser(id uint) (*model.User, error)
	ListUsers(offset, limit int) ([]model.User, int64, error)
	// SubscribedAmong reports which authors viewerID follows; anonymous viewers follow nobody.
	SubscribedAmong(viewerID uint, authorIDs []uint) (map[uint]bool, error)
	Subscribe(userID, authorID uint, recipesLimit int) (*AuthorSummary, error)
	Unsubscribe(userID, authorID uint) error
	// ListSubscriptions pages through followed authors. recipesLimit < 0 shows every recipe.
	ListSubscriptions(userID uint, offset, limit, recipesLimit int) ([]AuthorSummary, int64, error)
}

type userService struct {
	userRepo         repository.UserRepository
	subscriptionRepo repository.SubscriptionRepository
	recipeRepo       repository.RecipeRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	subscriptionRepo repository.SubscriptionRepository,
	recipeRepo repository.RecipeRepository,
) UserService {
	return &userService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		recipeRepo:       recipeRepo,
	}
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(offset, limit int) ([]model.User, int64, error) {
	return s.userRepo.FindAll(offset, limit)
}

func (s *userService) SubscribedAmong(viewerID uint, authorIDs []uint) (map[uint]bool, error) {
	return s.subscriptionRepo.SubscribedAmong(viewerID, authorIDs)
}

func (s *userService) Subscribe(userID, authorID uint, recipesLimit int) (*AuthorSummary, error) {
	logger.Info("Subscribing to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	author, err := s.GetUser(authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		logger.Warn("Subscription rejected: self subscription", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrSelfSubscription
	}

	exists, err := s.subscriptionRepo.Exists(userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Subscription rejected: already subscribed", map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return nil, ErrAlreadySubscribed
	}

	if err := s.subscriptionRepo.Create(userID, authorID); err != nil {
		return nil, err
	}

	logger.Info("Subscribed to author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return s.summarize(*author, recipesLimit)
}

func (s *userService) Unsubscribe(userID, authorID uint) error {
	if _, err := s.GetUser(authorID); err != nil {
		return err
	}

	removed, err := s.subscriptionRepo.Delete(userID, authorID)
	if err != nil {
		return err
	}
	if !removed {
		logger.Warn("Unsubscribe rejected: not subscribed", map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return ErrNotSubscribed
	}

	logger.Info("Unsubscribed from author", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})
	return nil
}

func (s *userService) ListSubscriptions(userID uint, offset, limit, recipesLimit int) ([]AuthorSummary, int64, error) {
	authors, total, err := s.subscriptionRepo.FindAuthors(userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]AuthorSummary, 0, len(authors))
	for _, author := range authors {
		summary, err := s.summarize(author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, *summary)
	}

	logger.Debug("Subscriptions listed", map[string]interface{}{
		"user_id": userID,
		"count":   len(summaries),
		"total":   total,
	})
	return summaries, total, nil
}

// summarize loads the author's newest recipes. With a limit, RecipesCount is capped by it.
func (s *userService) summarize(author model.User, recipesLimit int) (*AuthorSummary, error) {
	count, err := s.recipeRepo.CountByAuthor(author.ID)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipeRepo.FindByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}

	if recipesLimit >= 0 && int64(recipesLimit) < count {
		count = int64(recipesLimit)
	}
	return &AuthorSummary{Author: author, Recipes: recipes, RecipesCount: count}, nil
}
