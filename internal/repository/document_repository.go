package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"storefront-cms-backend/internal/models"
)

// DocumentRepository stores whole documents of one collection. Replace
// writes the entire document, nested sequences included.
type DocumentRepository[T models.Document] interface {
	Create(ctx context.Context, doc T) error
	Replace(ctx context.Context, doc T) error
	Delete(ctx context.Context, id bson.ObjectID) error
	GetByID(ctx context.Context, id bson.ObjectID) (T, error)
	GetAll(ctx context.Context) ([]T, error)
}

type documentRepository[T models.Document] struct {
	collection  *mongo.Collection
	uniqueField string
	newDocument func() T
}

func newDocumentRepository[T models.Document](collection *mongo.Collection, uniqueField string, newDocument func() T) *documentRepository[T] {
	return &documentRepository[T]{
		collection:  collection,
		uniqueField: uniqueField,
		newDocument: newDocument,
	}
}

func (r *documentRepository[T]) translate(op string, err error) error {
	return translateError(op, r.collection.Name(), r.uniqueField, err)
}

func (r *documentRepository[T]) Create(ctx context.Context, doc T) error {
	if doc.DocumentID().IsZero() {
		doc.SetDocumentID(bson.NewObjectID())
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return r.translate("insert", err)
}

func (r *documentRepository[T]) Replace(ctx context.Context, doc T) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.DocumentID()}, doc)
	if err != nil {
		return r.translate("replace", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepository[T]) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.translate("delete", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepository[T]) GetByID(ctx context.Context, id bson.ObjectID) (T, error) {
	return r.findOne(ctx, bson.M{"_id": id}, nil)
}

func (r *documentRepository[T]) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptionsBuilder) (T, error) {
	var result *mongo.SingleResult
	if opts != nil {
		result = r.collection.FindOne(ctx, filter, opts)
	} else {
		result = r.collection.FindOne(ctx, filter)
	}
	doc, err := r.decode(result)
	if err != nil {
		var zero T
		return zero, r.translate("find", err)
	}
	return doc, nil
}

// GetAll returns every document in insertion order.
func (r *documentRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, r.translate("find", err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	for cursor.Next(ctx) {
		doc, err := r.decode(cursor)
		if err != nil {
			return nil, r.translate("decode", err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, r.translate("iterate", err)
	}
	return docs, nil
}

type decoder interface {
	Decode(v any) error
}

func (r *documentRepository[T]) decode(src decoder) (T, error) {
	doc := r.newDocument()
	if err := src.Decode(doc); err != nil {
		var zero T
		return zero, err
	}
	if d, ok := any(doc).(models.Decoded); ok {
		d.AfterDecode()
	}
	return doc, nil
}
