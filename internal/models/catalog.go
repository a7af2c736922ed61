package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/pkg/validator"
)

const (
	DefaultMediaType    = "image"
	DefaultDiscountType = "percentage"

	priceDigits = 10
	pricePlaces = 2
)

var ProductSchema = &validator.Schema{
	Name: "product",
	Rules: []validator.Rule{
		{Field: "name", Type: validator.String, Presence: validator.Required},
		{Field: "description", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "price", Type: validator.Decimal, Presence: validator.Required, MaxDigits: priceDigits, DecimalPlaces: pricePlaces},
		{Field: "discount_price", Type: validator.Decimal, Presence: validator.Optional, Nullable: true, MaxDigits: priceDigits, DecimalPlaces: pricePlaces},
		{Field: "stock", Type: validator.Int, Presence: validator.Defaulted, Default: func() any { return 0 }},
		{Field: "images", Type: validator.StringList, Presence: validator.Defaulted, Default: emptyStrings},
		{Field: "videos", Type: validator.StringList, Presence: validator.Defaulted, Default: emptyStrings},
		{Field: "category_ids", Type: validator.StringList, Presence: validator.Defaulted, Default: emptyStrings},
		{Field: "attributes", Type: validator.Map, Presence: validator.Defaulted, Default: emptyMap},
		{Field: "is_active", Type: validator.Bool, Presence: validator.Defaulted, Default: func() any { return true }},
	},
}

var CategorySchema = &validator.Schema{
	Name: "category",
	Rules: []validator.Rule{
		{Field: "name", Type: validator.String, Presence: validator.Required},
		{Field: "slug", Type: validator.String, Presence: validator.Required},
		{Field: "description", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "media_url", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "media_type", Type: validator.String, Presence: validator.Defaulted, Default: func() any { return DefaultMediaType }},
		{Field: "is_active", Type: validator.Bool, Presence: validator.Defaulted, Default: func() any { return true }},
	},
}

var CouponSchema = &validator.Schema{
	Name: "coupon",
	Rules: []validator.Rule{
		{Field: "code", Type: validator.String, Presence: validator.Required},
		{Field: "discount_type", Type: validator.String, Presence: validator.Defaulted, Default: func() any { return DefaultDiscountType }},
		{Field: "discount_value", Type: validator.Decimal, Presence: validator.Required, MaxDigits: priceDigits, DecimalPlaces: pricePlaces},
		{Field: "min_cart_value", Type: validator.Decimal, Presence: validator.Defaulted, MaxDigits: priceDigits, DecimalPlaces: pricePlaces, Default: func() any { return mustDecimal("0") }},
		{Field: "expiry_date", Type: validator.DateTime, Presence: validator.Optional, Nullable: true},
		{Field: "usage_limit", Type: validator.Int, Presence: validator.Optional, Nullable: true},
		{Field: "usage_count", Type: validator.Int, Presence: validator.Defaulted, Default: func() any { return 0 }},
		{Field: "is_active", Type: validator.Bool, Presence: validator.Defaulted, Default: func() any { return true }},
		{Field: "applied_to", Type: validator.Map, Presence: validator.Defaulted, Default: emptyMap},
	},
}

func emptyStrings() any { return []string{} }

type Product struct {
	ID            bson.ObjectID    `bson:"_id,omitempty"`
	Name          string           `bson:"name"`
	Description   *string          `bson:"description,omitempty"`
	Price         bson.Decimal128  `bson:"price"`
	DiscountPrice *bson.Decimal128 `bson:"discount_price"`
	Stock         int              `bson:"stock"`
	Images        []string         `bson:"images"`
	Videos        []string         `bson:"videos"`
	CategoryIDs   []string         `bson:"category_ids"`
	Attributes    map[string]any   `bson:"attributes"`
	IsActive      bool             `bson:"is_active"`
	CreatedAt     *time.Time       `bson:"created_at,omitempty"`
	UpdatedAt     *time.Time       `bson:"updated_at,omitempty"`

	Extra bson.M `bson:",inline"`
}

func NewProduct(fields validator.Fields) *Product {
	product := &Product{IsActive: true}
	product.Apply(fields)
	return product
}

func (p *Product) Apply(fields validator.Fields) {
	if fields.Has("name") {
		p.Name = fields.String("name")
	}
	if fields.Has("description") {
		p.Description = fields.StringPtr("description")
	}
	if fields.Has("price") {
		p.Price = fields.Decimal("price")
	}
	if fields.Has("discount_price") {
		p.DiscountPrice = fields.DecimalPtr("discount_price")
	}
	if fields.Has("stock") {
		p.Stock = fields.Int("stock")
	}
	if fields.Has("images") {
		p.Images = copyStrings(fields.StringList("images"))
	}
	if fields.Has("videos") {
		p.Videos = copyStrings(fields.StringList("videos"))
	}
	if fields.Has("category_ids") {
		p.CategoryIDs = copyStrings(fields.StringList("category_ids"))
	}
	if fields.Has("attributes") {
		p.Attributes = copyMap(fields.Map("attributes"))
	}
	if fields.Has("is_active") {
		p.IsActive = fields.Bool("is_active")
	}
}

func (p *Product) Fields() map[string]any {
	return map[string]any{
		"name":           p.Name,
		"description":    stringOrNil(p.Description),
		"price":          p.Price,
		"discount_price": decimalOrNil(p.DiscountPrice),
		"stock":          p.Stock,
		"images":         copyStrings(p.Images),
		"videos":         copyStrings(p.Videos),
		"category_ids":   copyStrings(p.CategoryIDs),
		"attributes":     copyMap(p.Attributes),
		"is_active":      p.IsActive,
	}
}

func (p *Product) DocumentID() bson.ObjectID      { return p.ID }
func (p *Product) SetDocumentID(id bson.ObjectID) { p.ID = id }

func (p *Product) Touch(now time.Time) { touch(&p.CreatedAt, &p.UpdatedAt, now) }

func (p *Product) Timestamps() (*time.Time, *time.Time) { return p.CreatedAt, p.UpdatedAt }

type Category struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Name        string        `bson:"name"`
	Slug        string        `bson:"slug"`
	Description *string       `bson:"description,omitempty"`
	MediaURL    *string       `bson:"media_url,omitempty"`
	MediaType   string        `bson:"media_type"`
	IsActive    bool          `bson:"is_active"`

	Extra bson.M `bson:",inline"`
}

func NewCategory(fields validator.Fields) *Category {
	category := &Category{MediaType: DefaultMediaType, IsActive: true}
	category.Apply(fields)
	return category
}

func (c *Category) Apply(fields validator.Fields) {
	if fields.Has("name") {
		c.Name = fields.String("name")
	}
	if fields.Has("slug") {
		c.Slug = fields.String("slug")
	}
	if fields.Has("description") {
		c.Description = fields.StringPtr("description")
	}
	if fields.Has("media_url") {
		c.MediaURL = fields.StringPtr("media_url")
	}
	if fields.Has("media_type") {
		c.MediaType = fields.String("media_type")
	}
	if fields.Has("is_active") {
		c.IsActive = fields.Bool("is_active")
	}
}

func (c *Category) Fields() map[string]any {
	return map[string]any{
		"name":        c.Name,
		"slug":        c.Slug,
		"description": stringOrNil(c.Description),
		"media_url":   stringOrNil(c.MediaURL),
		"media_type":  c.MediaType,
		"is_active":   c.IsActive,
	}
}

func (c *Category) DocumentID() bson.ObjectID      { return c.ID }
func (c *Category) SetDocumentID(id bson.ObjectID) { c.ID = id }

type Coupon struct {
	ID            bson.ObjectID   `bson:"_id,omitempty"`
	Code          string          `bson:"code"`
	DiscountType  string          `bson:"discount_type"`
	DiscountValue bson.Decimal128 `bson:"discount_value"`
	MinCartValue  bson.Decimal128 `bson:"min_cart_value"`
	ExpiryDate    *time.Time      `bson:"expiry_date"`
	UsageLimit    *int            `bson:"usage_limit"`
	UsageCount    int             `bson:"usage_count"`
	IsActive      bool            `bson:"is_active"`
	AppliedTo     map[string]any  `bson:"applied_to"`

	Extra bson.M `bson:",inline"`
}

func NewCoupon(fields validator.Fields) *Coupon {
	coupon := &Coupon{
		DiscountType: DefaultDiscountType,
		MinCartValue: mustDecimal("0"),
		IsActive:     true,
	}
	coupon.Apply(fields)
	return coupon
}

func (c *Coupon) Apply(fields validator.Fields) {
	if fields.Has("code") {
		c.Code = fields.String("code")
	}
	if fields.Has("discount_type") {
		c.DiscountType = fields.String("discount_type")
	}
	if fields.Has("discount_value") {
		c.DiscountValue = fields.Decimal("discount_value")
	}
	if fields.Has("min_cart_value") {
		c.MinCartValue = fields.Decimal("min_cart_value")
	}
	if fields.Has("expiry_date") {
		c.ExpiryDate = fields.TimePtr("expiry_date")
	}
	if fields.Has("usage_limit") {
		c.UsageLimit = fields.IntPtr("usage_limit")
	}
	if fields.Has("usage_count") {
		c.UsageCount = fields.Int("usage_count")
	}
	if fields.Has("is_active") {
		c.IsActive = fields.Bool("is_active")
	}
	if fields.Has("applied_to") {
		c.AppliedTo = copyMap(fields.Map("applied_to"))
	}
}

func (c *Coupon) Fields() map[string]any {
	return map[string]any{
		"code":           c.Code,
		"discount_type":  c.DiscountType,
		"discount_value": c.DiscountValue,
		"min_cart_value": c.MinCartValue,
		"expiry_date":    timeOrNil(c.ExpiryDate),
		"usage_limit":    intOrNil(c.UsageLimit),
		"usage_count":    c.UsageCount,
		"is_active":      c.IsActive,
		"applied_to":     copyMap(c.AppliedTo),
	}
}

func (c *Coupon) DocumentID() bson.ObjectID      { return c.ID }
func (c *Coupon) SetDocumentID(id bson.ObjectID) { c.ID = id }
