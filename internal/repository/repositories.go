package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"storefront-cms-backend/internal/models"
)

const (
	PagesCollection      = "pages"
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	CouponsCollection    = "coupons"
	ThemesCollection     = "themes"
	StoriesCollection    = "stories"
	HeroesCollection     = "heroes"
)

type (
	PageRepository     = DocumentRepository[*models.Page]
	ProductRepository  = DocumentRepository[*models.Product]
	CategoryRepository = DocumentRepository[*models.Category]
	CouponRepository   = DocumentRepository[*models.Coupon]
	ThemeRepository    = DocumentRepository[*models.Theme]
	StoryRepository    = DocumentRepository[*models.Story]
)

// Documents are decoded over their model defaults so fields missing from
// older records read back with the value a new record would get.

func NewPageRepository(db *mongo.Database) PageRepository {
	return newDocumentRepository(db.Collection(PagesCollection), "slug", func() *models.Page {
		return models.NewPage(nil)
	})
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return newDocumentRepository(db.Collection(ProductsCollection), "", func() *models.Product {
		return models.NewProduct(nil)
	})
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return newDocumentRepository(db.Collection(CategoriesCollection), "slug", func() *models.Category {
		return models.NewCategory(nil)
	})
}

func NewCouponRepository(db *mongo.Database) CouponRepository {
	return newDocumentRepository(db.Collection(CouponsCollection), "code", func() *models.Coupon {
		return models.NewCoupon(nil)
	})
}

func NewThemeRepository(db *mongo.Database) ThemeRepository {
	return newDocumentRepository(db.Collection(ThemesCollection), "", newThemeDocument)
}

// Stored maps are decoded into existing entries, so the default colors and
// typography are left empty here and filled by Theme.AfterDecode.
func newThemeDocument() *models.Theme {
	theme := models.NewTheme(nil)
	theme.Colors = nil
	theme.Typography = nil
	return theme
}

func NewStoryRepository(db *mongo.Database) StoryRepository {
	return newDocumentRepository(db.Collection(StoriesCollection), "", func() *models.Story {
		return models.NewStory(nil)
	})
}

type HeroRepository interface {
	DocumentRepository[*models.Hero]
	// GetActive returns the oldest active hero.
	GetActive(ctx context.Context) (*models.Hero, error)
}

type heroRepository struct {
	*documentRepository[*models.Hero]
}

func NewHeroRepository(db *mongo.Database) HeroRepository {
	return &heroRepository{
		documentRepository: newDocumentRepository(db.Collection(HeroesCollection), "", models.NewHero),
	}
}

func (r *heroRepository) GetActive(ctx context.Context) (*models.Hero, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{"is_active": true}, opts)
}

// EnsureIndexes creates the unique indexes backing duplicate key detection.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := map[string]string{
		PagesCollection:      "slug",
		CategoriesCollection: "slug",
		CouponsCollection:    "code",
	}
	for collection, field := range unique {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create %s.%s index: %w", collection, field, err)
		}
	}
	return nil
}
