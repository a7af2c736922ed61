package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/internal/repository"
)

// memoryRepository keeps BSON-encoded documents so every read decodes a
// fresh copy, like the real store.
type memoryRepository[T models.Document] struct {
	mu          sync.Mutex
	name        string
	uniqueField string
	newDocument func() T
	order       []bson.ObjectID
	data        map[bson.ObjectID][]byte
}

func newMemoryRepository[T models.Document](name, uniqueField string, newDocument func() T) *memoryRepository[T] {
	return &memoryRepository[T]{
		name:        name,
		uniqueField: uniqueField,
		newDocument: newDocument,
		data:        make(map[bson.ObjectID][]byte),
	}
}

func (r *memoryRepository[T]) violatesUnique(doc T, raw []byte) (bool, error) {
	if r.uniqueField == "" {
		return false, nil
	}
	var incoming bson.M
	if err := bson.Unmarshal(raw, &incoming); err != nil {
		return false, err
	}
	for id, stored := range r.data {
		if id == doc.DocumentID() {
			continue
		}
		var existing bson.M
		if err := bson.Unmarshal(stored, &existing); err != nil {
			return false, err
		}
		if existing[r.uniqueField] == incoming[r.uniqueField] {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository[T]) Create(_ context.Context, doc T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc.DocumentID().IsZero() {
		doc.SetDocumentID(bson.NewObjectID())
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	dup, err := r.violatesUnique(doc, raw)
	if err != nil {
		return err
	}
	if dup {
		return &repository.DuplicateKeyError{Collection: r.name, Field: r.uniqueField}
	}
	r.data[doc.DocumentID()] = raw
	r.order = append(r.order, doc.DocumentID())
	return nil
}

func (r *memoryRepository[T]) Replace(_ context.Context, doc T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[doc.DocumentID()]; !ok {
		return repository.ErrNotFound
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	dup, err := r.violatesUnique(doc, raw)
	if err != nil {
		return err
	}
	if dup {
		return &repository.DuplicateKeyError{Collection: r.name, Field: r.uniqueField}
	}
	r.data[doc.DocumentID()] = raw
	return nil
}

func (r *memoryRepository[T]) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.data, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryRepository[T]) decode(raw []byte) (T, error) {
	doc := r.newDocument()
	if err := bson.Unmarshal(raw, doc); err != nil {
		var zero T
		return zero, err
	}
	return doc, nil
}

func (r *memoryRepository[T]) GetByID(_ context.Context, id bson.ObjectID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.data[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return r.decode(raw)
}

func (r *memoryRepository[T]) GetAll(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]T, 0, len(r.order))
	for _, id := range r.order {
		doc, err := r.decode(r.data[id])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *memoryRepository[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

type memoryHeroRepository struct {
	*memoryRepository[*models.Hero]
}

func newMemoryHeroRepository() *memoryHeroRepository {
	return &memoryHeroRepository{
		memoryRepository: newMemoryRepository(repository.HeroesCollection, "", models.NewHero),
	}
}

func (r *memoryHeroRepository) GetActive(ctx context.Context) (*models.Hero, error) {
	heroes, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, hero := range heroes {
		if hero.IsActive {
			return hero, nil
		}
	}
	return nil, repository.ErrNotFound
}
