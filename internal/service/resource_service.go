package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/pkg/cache"
	"storefront-cms-backend/pkg/coerce"
	"storefront-cms-backend/pkg/logger"
	"storefront-cms-backend/pkg/validator"
)

// ResourceService implements list, detail, create, replace and delete for
// one collection. Every result is a wire representation.
type ResourceService[T models.Document] struct {
	name   string
	schema *validator.Schema
	repo   repository.DocumentRepository[T]
	build  func(validator.Fields) T
	cache  *cache.Cache
}

func NewResourceService[T models.Document](name string, schema *validator.Schema, repo repository.DocumentRepository[T], build func(validator.Fields) T, cacheService *cache.Cache) *ResourceService[T] {
	return &ResourceService[T]{
		name:   name,
		schema: schema,
		repo:   repo,
		build:  build,
		cache:  cacheService,
	}
}

func NewPageService(repo repository.PageRepository, cacheService *cache.Cache) *ResourceService[*models.Page] {
	return NewResourceService(repository.PagesCollection, models.PageSchema, repo, models.NewPage, cacheService)
}

func NewProductService(repo repository.ProductRepository, cacheService *cache.Cache) *ResourceService[*models.Product] {
	return NewResourceService(repository.ProductsCollection, models.ProductSchema, repo, models.NewProduct, cacheService)
}

func NewCategoryService(repo repository.CategoryRepository, cacheService *cache.Cache) *ResourceService[*models.Category] {
	return NewResourceService(repository.CategoriesCollection, models.CategorySchema, repo, models.NewCategory, cacheService)
}

func NewCouponService(repo repository.CouponRepository, cacheService *cache.Cache) *ResourceService[*models.Coupon] {
	return NewResourceService(repository.CouponsCollection, models.CouponSchema, repo, models.NewCoupon, cacheService)
}

func NewThemeService(repo repository.ThemeRepository, cacheService *cache.Cache) *ResourceService[*models.Theme] {
	return NewResourceService(repository.ThemesCollection, models.ThemeSchema, repo, models.NewTheme, cacheService)
}

func NewStoryService(repo repository.StoryRepository, cacheService *cache.Cache) *ResourceService[*models.Story] {
	return NewResourceService(repository.StoriesCollection, models.StorySchema, repo, models.NewStory, cacheService)
}

func (s *ResourceService[T]) Name() string {
	return s.name
}

func (s *ResourceService[T]) List(ctx context.Context) ([]map[string]any, error) {
	var cached []map[string]any
	if s.cacheGet(ctx, cache.ListKey(s.name), &cached) {
		return cached, nil
	}

	docs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.storageFailure(ctx, "list", "", err)
	}

	out := models.Representations(docs)
	s.cacheSet(ctx, cache.ListKey(s.name), out)
	return out, nil
}

func (s *ResourceService[T]) Get(ctx context.Context, id string) (map[string]any, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	key := s.documentKey(objectID)
	var cached map[string]any
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	doc, err := s.load(ctx, objectID)
	if err != nil {
		return nil, err
	}

	out := models.Representation(doc)
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *ResourceService[T]) Create(ctx context.Context, payload map[string]any) (map[string]any, error) {
	fields, err := s.schema.Validate(payload)
	if err != nil {
		return nil, err
	}

	doc := s.build(fields)
	touch(doc)

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, s.storageFailure(ctx, "create", "", err)
	}

	s.invalidate(ctx, "")
	return models.Representation(doc), nil
}

// Replace loads the stored document, applies the validated payload over it
// and writes the whole document back. Absent top-level fields keep their
// stored values while the section tree is always rebuilt.
func (s *ResourceService[T]) Replace(ctx context.Context, id string, payload map[string]any) (map[string]any, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.load(ctx, objectID)
	if err != nil {
		return nil, err
	}

	fields, err := s.schema.ValidateReplace(payload)
	if err != nil {
		return nil, err
	}

	doc.Apply(fields)
	touch(doc)

	if err := s.repo.Replace(ctx, doc); err != nil {
		return nil, s.storageFailure(ctx, "replace", objectID.Hex(), err)
	}

	s.invalidate(ctx, objectID.Hex())
	return models.Representation(doc), nil
}

func (s *ResourceService[T]) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, objectID); err != nil {
		return s.storageFailure(ctx, "delete", objectID.Hex(), err)
	}

	s.invalidate(ctx, objectID.Hex())
	return nil
}

func (s *ResourceService[T]) load(ctx context.Context, id bson.ObjectID) (T, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, s.storageFailure(ctx, "get", id.Hex(), err)
	}
	return doc, nil
}

// storageFailure logs unexpected store errors. Not-found and duplicate key
// errors are client outcomes and pass through silently.
func (s *ResourceService[T]) storageFailure(ctx context.Context, op, id string, err error) error {
	if repository.IsNotFound(err) || repository.IsDuplicateKeyError(err) {
		return err
	}
	logger.FromContext(ctx).WithError(err).WithFields(map[string]interface{}{
		"collection": s.name,
		"operation":  op,
		"id":         id,
	}).Error("Store command failed")
	return err
}

func (s *ResourceService[T]) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if !s.cache.Enabled() {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.FromContext(ctx).WithError(err).WithField("key", key).Warn("Cache read failed")
	}
	return false
}

func (s *ResourceService[T]) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// documentKey is built from the parsed id so every spelling of the same
// identifier shares one cache entry.
func (s *ResourceService[T]) documentKey(id bson.ObjectID) string {
	return cache.DocumentKey(s.name, id.Hex())
}

func (s *ResourceService[T]) invalidate(ctx context.Context, id string) {
	if err := s.cache.InvalidateCollection(ctx, s.name, id); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("collection", s.name).Warn("Cache invalidation failed")
	}
}

// parseID treats a malformed identifier like a missing document.
func parseID(id string) (bson.ObjectID, error) {
	objectID, err := coerce.ParseObjectID(id)
	if err != nil {
		return bson.ObjectID{}, repository.ErrNotFound
	}
	return objectID, nil
}

func touch(doc models.Document) {
	if ts, ok := doc.(models.Timestamped); ok {
		ts.Touch(time.Now())
	}
}
