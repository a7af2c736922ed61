package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/pkg/validator"
)

const (
	DefaultPageLayout    = "default"
	DefaultPageStatus    = "draft"
	DefaultPageVersion   = 1
	DefaultSectionLayout = "boxed"
)

// Visibility platform keys.
const (
	VisibilityMobile  = "mobile"
	VisibilityTablet  = "tablet"
	VisibilityDesktop = "desktop"
)

// DefaultVisibility returns a new map with every platform visible.
func DefaultVisibility() map[string]any {
	return map[string]any{
		VisibilityMobile:  true,
		VisibilityTablet:  true,
		VisibilityDesktop: true,
	}
}

// MergeVisibility overlays supplied keys onto the defaults.
func MergeVisibility(supplied map[string]any) map[string]any {
	merged := DefaultVisibility()
	for key, value := range supplied {
		merged[key] = value
	}
	return merged
}

func emptyMap() any { return map[string]any{} }

func emptyObjects() any { return []validator.Fields{} }

var BlockSchema = &validator.Schema{
	Name: "block",
	Rules: []validator.Rule{
		{Field: "id", Type: validator.String, Presence: validator.Required},
		{Field: "type", Type: validator.String, Presence: validator.Required},
		{Field: "content", Type: validator.Map, Presence: validator.Defaulted, Default: emptyMap},
		{Field: "styles", Type: validator.Map, Presence: validator.Defaulted, Default: emptyMap},
		{Field: "animations", Type: validator.Map, Presence: validator.Defaulted, Default: emptyMap},
		{Field: "visibility", Type: validator.Map, Presence: validator.Defaulted, Default: func() any { return DefaultVisibility() }},
	},
}

var SectionSchema = &validator.Schema{
	Name: "section",
	Rules: []validator.Rule{
		{Field: "id", Type: validator.String, Presence: validator.Required},
		{Field: "layout", Type: validator.String, Presence: validator.Defaulted, Default: func() any { return DefaultSectionLayout }},
		{Field: "styles", Type: validator.Map, Presence: validator.Defaulted, Default: emptyMap},
		{Field: "blocks", Type: validator.ObjectList, Presence: validator.Defaulted, Items: BlockSchema, Default: emptyObjects},
		{Field: "order", Type: validator.Int, Presence: validator.Defaulted, Default: func() any { return 0 }},
	},
}

var PageSchema = &validator.Schema{
	Name: "page",
	Rules: []validator.Rule{
		{Field: "name", Type: validator.String, Presence: validator.Required},
		{Field: "slug", Type: validator.String, Presence: validator.Required},
		{Field: "meta_title", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "meta_description", Type: validator.String, Presence: validator.Optional, AllowBlank: true, Nullable: true},
		{Field: "layout", Type: validator.String, Presence: validator.Defaulted, Default: func() any { return DefaultPageLayout }},
		{Field: "is_active", Type: validator.Bool, Presence: validator.Defaulted, Default: func() any { return true }},
		{Field: "status", Type: validator.String, Presence: validator.Defaulted, Default: func() any { return DefaultPageStatus }},
		{Field: "sections", Type: validator.ObjectList, Presence: validator.Defaulted, Items: SectionSchema, Default: emptyObjects},
		{Field: "version", Type: validator.Int, Presence: validator.Defaulted, Default: func() any { return DefaultPageVersion }},
	},
}

// Block is the smallest content unit. Content, styles and animations are
// stored verbatim.
type Block struct {
	ID         string         `bson:"id"`
	Type       string         `bson:"type"`
	Content    map[string]any `bson:"content"`
	Styles     map[string]any `bson:"styles"`
	Animations map[string]any `bson:"animations"`
	Visibility map[string]any `bson:"visibility"`
}

// Section is an ordered group of blocks. Array position is the display order;
// Order is kept as supplied.
type Section struct {
	ID     string         `bson:"id"`
	Layout string         `bson:"layout"`
	Styles map[string]any `bson:"styles"`
	Blocks []Block        `bson:"blocks"`
	Order  int            `bson:"order"`
}

type Page struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Name            string        `bson:"name"`
	Slug            string        `bson:"slug"`
	MetaTitle       *string       `bson:"meta_title,omitempty"`
	MetaDescription *string       `bson:"meta_description,omitempty"`
	Layout          string        `bson:"layout"`
	IsActive        bool          `bson:"is_active"`
	Status          string        `bson:"status"`
	Sections        []Section     `bson:"sections"`
	Version         int           `bson:"version"`
	CreatedAt       *time.Time    `bson:"created_at,omitempty"`
	UpdatedAt       *time.Time    `bson:"updated_at,omitempty"`

	// Extra keeps stored fields this model does not declare.
	Extra bson.M `bson:",inline"`
}

// NewBlock builds a block from validated fields. A partial visibility map is
// merged over the defaults.
func NewBlock(fields validator.Fields) Block {
	return Block{
		ID:         fields.String("id"),
		Type:       fields.String("type"),
		Content:    copyMap(fields.Map("content")),
		Styles:     copyMap(fields.Map("styles")),
		Animations: copyMap(fields.Map("animations")),
		Visibility: MergeVisibility(fields.Map("visibility")),
	}
}

// NewSection builds a section and its blocks, blocks first.
func NewSection(fields validator.Fields) Section {
	blockFields := fields.Objects("blocks")
	blocks := make([]Block, 0, len(blockFields))
	for _, bf := range blockFields {
		blocks = append(blocks, NewBlock(bf))
	}

	layout := DefaultSectionLayout
	if fields.Has("layout") {
		layout = fields.String("layout")
	}

	return Section{
		ID:     fields.String("id"),
		Layout: layout,
		Styles: copyMap(fields.Map("styles")),
		Blocks: blocks,
		Order:  fields.Int("order"),
	}
}

func newSections(items []validator.Fields) []Section {
	sections := make([]Section, 0, len(items))
	for _, sf := range items {
		sections = append(sections, NewSection(sf))
	}
	return sections
}

// NewPage builds a page bottom-up from validated fields.
func NewPage(fields validator.Fields) *Page {
	page := &Page{
		Layout:   DefaultPageLayout,
		IsActive: true,
		Status:   DefaultPageStatus,
		Version:  DefaultPageVersion,
	}
	page.Apply(fields)
	return page
}

// Apply overwrites supplied top-level fields and always rebuilds the whole
// section tree: a payload without sections leaves the page with none.
func (p *Page) Apply(fields validator.Fields) {
	if fields.Has("name") {
		p.Name = fields.String("name")
	}
	if fields.Has("slug") {
		p.Slug = fields.String("slug")
	}
	if fields.Has("meta_title") {
		p.MetaTitle = fields.StringPtr("meta_title")
	}
	if fields.Has("meta_description") {
		p.MetaDescription = fields.StringPtr("meta_description")
	}
	if fields.Has("layout") {
		p.Layout = fields.String("layout")
	}
	if fields.Has("is_active") {
		p.IsActive = fields.Bool("is_active")
	}
	if fields.Has("status") {
		p.Status = fields.String("status")
	}
	if fields.Has("version") {
		p.Version = fields.Int("version")
	}
	p.Sections = newSections(fields.Objects("sections"))
}

func (b Block) Fields() map[string]any {
	return map[string]any{
		"id":         b.ID,
		"type":       b.Type,
		"content":    copyMap(b.Content),
		"styles":     copyMap(b.Styles),
		"animations": copyMap(b.Animations),
		"visibility": MergeVisibility(b.Visibility),
	}
}

func (s Section) Fields() map[string]any {
	blocks := make([]any, 0, len(s.Blocks))
	for _, block := range s.Blocks {
		blocks = append(blocks, block.Fields())
	}
	return map[string]any{
		"id":     s.ID,
		"layout": s.Layout,
		"styles": copyMap(s.Styles),
		"blocks": blocks,
		"order":  s.Order,
	}
}

func (p *Page) Fields() map[string]any {
	sections := make([]any, 0, len(p.Sections))
	for _, section := range p.Sections {
		sections = append(sections, section.Fields())
	}
	return map[string]any{
		"name":             p.Name,
		"slug":             p.Slug,
		"meta_title":       stringOrNil(p.MetaTitle),
		"meta_description": stringOrNil(p.MetaDescription),
		"layout":           p.Layout,
		"is_active":        p.IsActive,
		"status":           p.Status,
		"sections":         sections,
		"version":          p.Version,
	}
}

func (p *Page) DocumentID() bson.ObjectID      { return p.ID }
func (p *Page) SetDocumentID(id bson.ObjectID) { p.ID = id }

func (p *Page) Touch(now time.Time) { touch(&p.CreatedAt, &p.UpdatedAt, now) }

func (p *Page) Timestamps() (*time.Time, *time.Time) { return p.CreatedAt, p.UpdatedAt }
