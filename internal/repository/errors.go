package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError reports which unique field of a collection was violated.
type DuplicateKeyError struct {
	Collection string
	Field      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s.%s already exists", ErrDuplicateKey.Error(), e.Collection, e.Field)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func translateError(op, collection, uniqueField string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return &DuplicateKeyError{Collection: collection, Field: uniqueField}
	default:
		return fmt.Errorf("%s %s: %w", op, collection, err)
	}
}
