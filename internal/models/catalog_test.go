package models

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/pkg/validator"
)

func validateWith(t *testing.T, schema *validator.Schema, body string) validator.Fields {
	t.Helper()
	payload, err := validator.DecodeJSON(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	fields, err := schema.Validate(payload)
	if err != nil {
		t.Fatalf("validate %s payload: %v", schema.Name, err)
	}
	return fields
}

func TestProductRepresentationUsesFloats(t *testing.T) {
	product := NewProduct(validateWith(t, ProductSchema, `{"name": "Ghee", "price": "12.50", "discount_price": 9.99}`))
	product.SetDocumentID(bson.NewObjectID())

	rep := Representation(product)
	if price, ok := rep["price"].(float64); !ok || price != 12.5 {
		t.Fatalf("expected price 12.5 as float64, got %#v", rep["price"])
	}
	if discount, ok := rep["discount_price"].(float64); !ok || discount != 9.99 {
		t.Fatalf("expected discount_price 9.99 as float64, got %#v", rep["discount_price"])
	}
	if images, ok := rep["images"].([]any); !ok || len(images) != 0 {
		t.Fatalf("expected empty image list, got %#v", rep["images"])
	}
	if rep["stock"] != 0 || rep["is_active"] != true {
		t.Fatalf("unexpected defaults: stock=%v is_active=%v", rep["stock"], rep["is_active"])
	}
}

func TestProductNullDiscountPrice(t *testing.T) {
	product := NewProduct(validateWith(t, ProductSchema, `{"name": "Ghee", "price": 10, "discount_price": 4}`))
	product.Apply(validateWith(t, ProductSchema, `{"name": "Ghee", "price": 10, "discount_price": null}`))

	if product.DiscountPrice != nil {
		t.Fatalf("expected discount_price to be cleared")
	}
	if Representation(product)["discount_price"] != nil {
		t.Fatalf("expected null discount_price in representation")
	}
}

func TestProductPriceRequired(t *testing.T) {
	payload, _ := validator.DecodeJSON(strings.NewReader(`{}`))
	_, err := ProductSchema.Validate(payload)

	verr, ok := err.(*validator.ValidationError)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "price"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected %s to be reported, got %v", field, verr.Fields)
		}
	}
}

func TestCategoryDefaults(t *testing.T) {
	category := NewCategory(validateWith(t, CategorySchema, `{"name": "Pickles", "slug": "pickles"}`))

	if category.MediaType != DefaultMediaType || !category.IsActive {
		t.Fatalf("unexpected defaults: %+v", category)
	}
	if category.Description != nil || category.MediaURL != nil {
		t.Fatalf("expected optional fields to stay unset")
	}
}

func TestCouponDefaultsAndExpiry(t *testing.T) {
	coupon := NewCoupon(validateWith(t, CouponSchema, `{"code": "WELCOME10", "discount_value": 10, "expiry_date": "2030-12-31T23:59:00Z"}`))
	coupon.SetDocumentID(bson.NewObjectID())

	if coupon.DiscountType != DefaultDiscountType || coupon.UsageCount != 0 || coupon.UsageLimit != nil {
		t.Fatalf("unexpected defaults: %+v", coupon)
	}
	if !coupon.ExpiryDate.Equal(time.Date(2030, 12, 31, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiry %v", coupon.ExpiryDate)
	}

	rep := Representation(coupon)
	if rep["min_cart_value"] != float64(0) {
		t.Fatalf("expected min_cart_value 0, got %#v", rep["min_cart_value"])
	}
	if rep["expiry_date"] != "2030-12-31T23:59:00Z" {
		t.Fatalf("unexpected expiry_date %#v", rep["expiry_date"])
	}
	if _, ok := rep["created_at"]; ok {
		t.Fatalf("coupons carry no timestamps")
	}
}

func TestThemeDefaults(t *testing.T) {
	theme := NewTheme(validateWith(t, ThemeSchema, `{}`))

	if theme.Name != DefaultThemeName || theme.Colors["accent"] != "#ff0000" || theme.Typography["fontFamily"] != "Inter, sans-serif" {
		t.Fatalf("unexpected theme defaults: %+v", theme)
	}

	theme.Colors["accent"] = "#00ff00"
	if NewTheme(validateWith(t, ThemeSchema, `{}`)).Colors["accent"] != "#ff0000" {
		t.Fatalf("expected theme defaults to be fresh per entity")
	}
}

func TestStoryContentList(t *testing.T) {
	story := NewStory(validateWith(t, StorySchema, `{"title": "Roots", "fullStoryContent": [{"type": "p", "text": "hello"}]}`))

	if len(story.FullStoryContent) != 1 || story.FullStoryContent[0]["text"] != "hello" {
		t.Fatalf("unexpected story content %#v", story.FullStoryContent)
	}
}

func TestHeroDefaultsAndPartialApply(t *testing.T) {
	hero := NewHero()
	if hero.Title != DefaultHeroTitle || hero.SecondaryCTALink != DefaultHeroSecondaryCTALink || !hero.IsActive {
		t.Fatalf("unexpected hero defaults: %+v", hero)
	}

	hero.Apply(validateWith(t, HeroSchema, `{"title": "Harvest", "ctaLink": ""}`))
	if hero.Title != "Harvest" || hero.CTALink != "" {
		t.Fatalf("expected supplied fields to be applied: %+v", hero)
	}
	if hero.Subtitle != DefaultHeroSubtitle {
		t.Fatalf("expected absent fields to be kept, got %q", hero.Subtitle)
	}
}
