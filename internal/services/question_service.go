package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openexam/quiz-service/internal/cache"
	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/repositories"
)

const (
	sectionsCacheKey   = "quiz:sections"
	sectionCacheKeyFmt = "quiz:section:%s"
	defaultSectionsTTL = 5 * time.Minute
)

// QuestionService serves the question bank read path with a cache-aside
// layer in front of the workbook loader.
type QuestionService interface {
	Sections(ctx context.Context) ([]models.SectionInfo, error)
	Section(ctx context.Context, name string) (*models.Section, error)
	Reload(ctx context.Context) error
}

type questionService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
	ttl    time.Duration
}

func NewQuestionService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, ttl time.Duration) QuestionService {
	if ttl <= 0 {
		ttl = defaultSectionsTTL
	}
	return &questionService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
		ttl:    ttl,
	}
}

func (s *questionService) Sections(ctx context.Context) ([]models.SectionInfo, error) {
	var cached []models.SectionInfo
	if err := s.cache.Get(ctx, sectionsCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Section cache read failed", "error", err)
	}

	infos, err := s.repo.Question().Sections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}

	if err := s.cache.Set(ctx, sectionsCacheKey, infos, s.ttl); err != nil {
		s.logger.Warn("Section cache write failed", "error", err)
	}

	return infos, nil
}

func (s *questionService) Section(ctx context.Context, name string) (*models.Section, error) {
	key := fmt.Sprintf(sectionCacheKeyFmt, name)

	var cached models.Section
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Section cache read failed", "section", name, "error", err)
	}

	section, err := s.repo.Question().Section(ctx, name)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	if err := s.cache.Set(ctx, key, section, s.ttl); err != nil {
		s.logger.Warn("Section cache write failed", "section", name, "error", err)
	}

	return section, nil
}

// Reload rereads the question bank and drops the section listing from the
// cache. Per-section entries age out on their TTL.
func (s *questionService) Reload(ctx context.Context) error {
	if err := s.repo.Question().Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload question bank: %w", err)
	}
	if err := s.cache.Delete(ctx, sectionsCacheKey); err != nil {
		s.logger.Warn("Section cache invalidation failed", "error", err)
	}
	return nil
}
