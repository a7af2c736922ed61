package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/pkg/validator"
)

const DefaultThemeName = "Global Theme"

// Hero defaults used when the singleton banner is created implicitly.
const (
	DefaultHeroTitle            = "Fresh from Our Village"
	DefaultHeroSubtitle         = "Authentic flavors, delivered to your doorstep"
	DefaultHeroDescription      = "Experience the taste of tradition with our handpicked selection of village-fresh products"
	DefaultHeroBackgroundImage  = "/assets/hero.png"
	DefaultHeroCTAText          = "Explore Our Products"
	DefaultHeroCTALink          = "/products"
	DefaultHeroSecondaryCTAText = "Our Story"
	DefaultHeroSecondaryCTALink = "/story"
)

func DefaultThemeColors() map[string]any {
	return map[string]any{
		"primary":   "#000000",
		"secondary": "#ffffff",
		"accent":    "#ff0000",
	}
}

func DefaultThemeTypography() map[string]any {
	return map[string]any{"fontFamily": "Inter, sans-serif"}
}

var ThemeSchema = &validator.Schema{
	Name: "theme",
	Rules: []validator.Rule{
		{Field: "name", Type: validator.String, Presence: validator.Defaulted, Default: func() any { return DefaultThemeName }},
		{Field: "colors", Type: validator.Map, Presence: validator.Defaulted, Default: func() any { return DefaultThemeColors() }},
		{Field: "typography", Type: validator.Map, Presence: validator.Defaulted, Default: func() any { return DefaultThemeTypography() }},
		{Field: "is_active", Type: validator.Bool, Presence: validator.Defaulted, Default: func() any { return true }},
	},
}

var StorySchema = &validator.Schema{
	Name: "story",
	Rules: []validator.Rule{
		{Field: "title", Type: validator.String, Presence: validator.Required},
		{Field: "subtitle", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "thumbnailImage", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "heroImage", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "shortExcerpt", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "fullStoryContent", Type: validator.MapList, Presence: validator.Defaulted, Default: func() any { return []map[string]any{} }},
		{Field: "is_active", Type: validator.Bool, Presence: validator.Defaulted, Default: func() any { return true }},
	},
}

var HeroSchema = &validator.Schema{
	Name: "hero",
	Rules: []validator.Rule{
		{Field: "title", Type: validator.String, Presence: validator.Required},
		{Field: "subtitle", Type: validator.String, Presence: validator.Optional, AllowBlank: true},
		{Field: "description", Type: validator.String, Presence: validator.Optional, AllowBlank: true},
		{Field: "backgroundImage", Type: validator.String, Presence: validator.Optional, AllowBlank: true},
		{Field: "ctaText", Type: validator.String, Presence: validator.Optional, AllowBlank: true},
		{Field: "ctaLink", Type: validator.String, Presence: validator.Optional, AllowBlank: true},
		{Field: "secondaryCtaText", Type: validator.String, Presence: validator.Optional, AllowBlank: true},
		{Field: "secondaryCtaLink", Type: validator.String, Presence: validator.Optional, AllowBlank: true},
		{Field: "is_active", Type: validator.Bool, Presence: validator.Defaulted, Default: func() any { return true }},
	},
}

type Theme struct {
	ID         bson.ObjectID  `bson:"_id,omitempty"`
	Name       string         `bson:"name"`
	Colors     map[string]any `bson:"colors"`
	Typography map[string]any `bson:"typography"`
	IsActive   bool           `bson:"is_active"`

	Extra bson.M `bson:",inline"`
}

func NewTheme(fields validator.Fields) *Theme {
	theme := &Theme{
		Name:       DefaultThemeName,
		Colors:     DefaultThemeColors(),
		Typography: DefaultThemeTypography(),
		IsActive:   true,
	}
	theme.Apply(fields)
	return theme
}

func (t *Theme) Apply(fields validator.Fields) {
	if fields.Has("name") {
		t.Name = fields.String("name")
	}
	if fields.Has("colors") {
		t.Colors = copyMap(fields.Map("colors"))
	}
	if fields.Has("typography") {
		t.Typography = copyMap(fields.Map("typography"))
	}
	if fields.Has("is_active") {
		t.IsActive = fields.Bool("is_active")
	}
}

func (t *Theme) Fields() map[string]any {
	return map[string]any{
		"name":       t.Name,
		"colors":     copyMap(t.Colors),
		"typography": copyMap(t.Typography),
		"is_active":  t.IsActive,
	}
}

// AfterDecode restores the default maps for records stored without them.
func (t *Theme) AfterDecode() {
	if t.Colors == nil {
		t.Colors = DefaultThemeColors()
	}
	if t.Typography == nil {
		t.Typography = DefaultThemeTypography()
	}
}

func (t *Theme) DocumentID() bson.ObjectID      { return t.ID }
func (t *Theme) SetDocumentID(id bson.ObjectID) { t.ID = id }

type Story struct {
	ID               bson.ObjectID    `bson:"_id,omitempty"`
	Title            string           `bson:"title"`
	Subtitle         *string          `bson:"subtitle,omitempty"`
	ThumbnailImage   *string          `bson:"thumbnailImage,omitempty"`
	HeroImage        *string          `bson:"heroImage,omitempty"`
	ShortExcerpt     *string          `bson:"shortExcerpt,omitempty"`
	FullStoryContent []map[string]any `bson:"fullStoryContent"`
	IsActive         bool             `bson:"is_active"`

	Extra bson.M `bson:",inline"`
}

func NewStory(fields validator.Fields) *Story {
	story := &Story{IsActive: true}
	story.Apply(fields)
	return story
}

func (s *Story) Apply(fields validator.Fields) {
	if fields.Has("title") {
		s.Title = fields.String("title")
	}
	if fields.Has("subtitle") {
		s.Subtitle = fields.StringPtr("subtitle")
	}
	if fields.Has("thumbnailImage") {
		s.ThumbnailImage = fields.StringPtr("thumbnailImage")
	}
	if fields.Has("heroImage") {
		s.HeroImage = fields.StringPtr("heroImage")
	}
	if fields.Has("shortExcerpt") {
		s.ShortExcerpt = fields.StringPtr("shortExcerpt")
	}
	if fields.Has("fullStoryContent") {
		items := fields.MapList("fullStoryContent")
		s.FullStoryContent = make([]map[string]any, 0, len(items))
		for _, item := range items {
			s.FullStoryContent = append(s.FullStoryContent, copyMap(item))
		}
	}
	if fields.Has("is_active") {
		s.IsActive = fields.Bool("is_active")
	}
}

func (s *Story) Fields() map[string]any {
	content := make([]any, 0, len(s.FullStoryContent))
	for _, item := range s.FullStoryContent {
		content = append(content, copyMap(item))
	}
	return map[string]any{
		"title":            s.Title,
		"subtitle":         stringOrNil(s.Subtitle),
		"thumbnailImage":   stringOrNil(s.ThumbnailImage),
		"heroImage":        stringOrNil(s.HeroImage),
		"shortExcerpt":     stringOrNil(s.ShortExcerpt),
		"fullStoryContent": content,
		"is_active":        s.IsActive,
	}
}

func (s *Story) DocumentID() bson.ObjectID      { return s.ID }
func (s *Story) SetDocumentID(id bson.ObjectID) { s.ID = id }

// Hero is the storefront banner. Only the first active hero is served.
type Hero struct {
	ID               bson.ObjectID `bson:"_id,omitempty"`
	Title            string        `bson:"title"`
	Subtitle         string        `bson:"subtitle"`
	Description      string        `bson:"description"`
	BackgroundImage  string        `bson:"backgroundImage"`
	CTAText          string        `bson:"ctaText"`
	CTALink          string        `bson:"ctaLink"`
	SecondaryCTAText string        `bson:"secondaryCtaText"`
	SecondaryCTALink string        `bson:"secondaryCtaLink"`
	IsActive         bool          `bson:"is_active"`
	CreatedAt        *time.Time    `bson:"created_at,omitempty"`
	UpdatedAt        *time.Time    `bson:"updated_at,omitempty"`

	Extra bson.M `bson:",inline"`
}

// NewHero returns an active hero carrying every default.
func NewHero() *Hero {
	return &Hero{
		Title:            DefaultHeroTitle,
		Subtitle:         DefaultHeroSubtitle,
		Description:      DefaultHeroDescription,
		BackgroundImage:  DefaultHeroBackgroundImage,
		CTAText:          DefaultHeroCTAText,
		CTALink:          DefaultHeroCTALink,
		SecondaryCTAText: DefaultHeroSecondaryCTAText,
		SecondaryCTALink: DefaultHeroSecondaryCTALink,
		IsActive:         true,
	}
}

// NewHeroFromFields starts from the defaults and applies fields on top.
func NewHeroFromFields(fields validator.Fields) *Hero {
	hero := NewHero()
	hero.Apply(fields)
	return hero
}

func (h *Hero) Apply(fields validator.Fields) {
	for name, target := range map[string]*string{
		"title":            &h.Title,
		"subtitle":         &h.Subtitle,
		"description":      &h.Description,
		"backgroundImage":  &h.BackgroundImage,
		"ctaText":          &h.CTAText,
		"ctaLink":          &h.CTALink,
		"secondaryCtaText": &h.SecondaryCTAText,
		"secondaryCtaLink": &h.SecondaryCTALink,
	} {
		if fields.Has(name) {
			*target = fields.String(name)
		}
	}
	if fields.Has("is_active") {
		h.IsActive = fields.Bool("is_active")
	}
}

func (h *Hero) Fields() map[string]any {
	return map[string]any{
		"title":            h.Title,
		"subtitle":         h.Subtitle,
		"description":      h.Description,
		"backgroundImage":  h.BackgroundImage,
		"ctaText":          h.CTAText,
		"ctaLink":          h.CTALink,
		"secondaryCtaText": h.SecondaryCTAText,
		"secondaryCtaLink": h.SecondaryCTALink,
		"is_active":        h.IsActive,
	}
}

func (h *Hero) DocumentID() bson.ObjectID      { return h.ID }
func (h *Hero) SetDocumentID(id bson.ObjectID) { h.ID = id }

func (h *Hero) Touch(now time.Time) { touch(&h.CreatedAt, &h.UpdatedAt, now) }

func (h *Hero) Timestamps() (*time.Time, *time.Time) { return h.CreatedAt, h.UpdatedAt }
