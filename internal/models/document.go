package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/pkg/coerce"
	"storefront-cms-backend/pkg/validator"
)

// Document is a top-level stored entity.
type Document interface {
	DocumentID() bson.ObjectID
	SetDocumentID(id bson.ObjectID)
	// Apply copies the whitelisted validated fields onto the document.
	Apply(fields validator.Fields)
	// Fields flattens the document into its field map, without identifiers.
	Fields() map[string]any
}

// Timestamped documents track creation and modification times.
type Timestamped interface {
	Touch(now time.Time)
	Timestamps() (createdAt, updatedAt *time.Time)
}

// Decoded is implemented by documents that complete themselves after being
// read from the store.
type Decoded interface {
	AfterDecode()
}

// Representation renders doc for the wire: every store-native scalar is
// coerced and the identifier is exposed as both "id" and "_id".
func Representation(doc Document) map[string]any {
	out := doc.Fields()

	id := doc.DocumentID().Hex()
	out["id"] = id
	out["_id"] = id

	if ts, ok := doc.(Timestamped); ok {
		createdAt, updatedAt := ts.Timestamps()
		out["created_at"] = timeOrNil(createdAt)
		out["updated_at"] = timeOrNil(updatedAt)
	}

	return coerce.ToWire(out).(map[string]any)
}

// Representations renders a list of documents in order.
func Representations[T Document](docs []T) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Representation(doc))
	}
	return out
}

// touch truncates to milliseconds, the precision of stored dates.
func touch(createdAt, updatedAt **time.Time, now time.Time) {
	now = now.UTC().Truncate(time.Millisecond)
	if *createdAt == nil {
		created := now
		*createdAt = &created
	}
	*updatedAt = &now
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intOrNil(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func decimalOrNil(d *bson.Decimal128) any {
	if d == nil {
		return nil
	}
	return *d
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStrings(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func mustDecimal(s string) bson.Decimal128 {
	d, err := bson.ParseDecimal128(s)
	if err != nil {
		panic(err)
	}
	return d
}
