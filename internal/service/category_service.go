package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const categoryCachePrefix = "category:"

// CategoryService manages the category directory. Reads go through a
// cache-aside Redis layer; the cache degrades to direct reads when Redis is
// unavailable.
type CategoryService struct {
	categories repository.CategoryRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewCategoryService constructs the service. cache may be nil.
func NewCategoryService(categories repository.CategoryRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// CreateCategory adds a new category.
func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	category := &domain.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// GetCategory fetches a category by id, consulting the cache first.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	if cached := s.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.toCache(ctx, category)
	return category, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// DeleteCategory removes a category and evicts it from the cache.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	s.evict(ctx, id)
	return nil
}

func (s *CategoryService) fromCache(ctx context.Context, id string) *domain.Category {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, categoryCachePrefix+id).Bytes()
	if err != nil {
		return nil
	}
	var category domain.Category
	if err := json.Unmarshal(raw, &category); err != nil {
		return nil
	}
	return &category
}

func (s *CategoryService) toCache(ctx context.Context, category *domain.Category) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(category)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, categoryCachePrefix+category.ID, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("category cache set failed", zap.Error(err))
	}
}

func (s *CategoryService) evict(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, categoryCachePrefix+id).Err(); err != nil && s.logger != nil {
		s.logger.Debug("category cache evict failed", zap.Error(err))
	}
}
