package service

import (
	"context"

	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/pkg/cache"
	"storefront-cms-backend/pkg/logger"
)

const heroCacheKey = "heroes:active"

// HeroService serves the singleton storefront banner.
type HeroService struct {
	repo  repository.HeroRepository
	cache *cache.Cache
}

func NewHeroService(repo repository.HeroRepository, cacheService *cache.Cache) *HeroService {
	return &HeroService{repo: repo, cache: cacheService}
}

// Get returns the active hero, creating one with default values when none
// exists yet.
func (s *HeroService) Get(ctx context.Context) (map[string]any, error) {
	var cached map[string]any
	if s.cache.Enabled() && s.cache.Get(ctx, heroCacheKey, &cached) == nil {
		return cached, nil
	}

	hero, err := s.repo.GetActive(ctx)
	if repository.IsNotFound(err) {
		hero = models.NewHero()
		touch(hero)
		if err := s.repo.Create(ctx, hero); err != nil {
			return nil, s.failure(ctx, "create", err)
		}
		logger.FromContext(ctx).WithField("id", hero.ID.Hex()).Info("Created default hero")
	} else if err != nil {
		return nil, s.failure(ctx, "get", err)
	}

	out := models.Representation(hero)
	if err := s.cache.Set(ctx, heroCacheKey, out, 0); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Cache write failed")
	}
	return out, nil
}

// Update applies payload to the active hero, or creates one from it.
// Fields absent from payload keep their stored values.
func (s *HeroService) Update(ctx context.Context, payload map[string]any) (map[string]any, error) {
	fields, err := models.HeroSchema.ValidateReplace(payload)
	if err != nil {
		return nil, err
	}

	hero, err := s.repo.GetActive(ctx)
	switch {
	case repository.IsNotFound(err):
		created, err := models.HeroSchema.Validate(payload)
		if err != nil {
			return nil, err
		}
		hero = models.NewHeroFromFields(created)
		touch(hero)
		if err := s.repo.Create(ctx, hero); err != nil {
			return nil, s.failure(ctx, "create", err)
		}
	case err != nil:
		return nil, s.failure(ctx, "get", err)
	default:
		hero.Apply(fields)
		touch(hero)
		if err := s.repo.Replace(ctx, hero); err != nil {
			return nil, s.failure(ctx, "replace", err)
		}
	}

	if err := s.cache.Delete(ctx, heroCacheKey); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Cache invalidation failed")
	}
	return models.Representation(hero), nil
}

func (s *HeroService) failure(ctx context.Context, op string, err error) error {
	logger.FromContext(ctx).WithError(err).WithFields(map[string]interface{}{
		"collection": repository.HeroesCollection,
		"operation":  op,
	}).Error("Store command failed")
	return err
}
