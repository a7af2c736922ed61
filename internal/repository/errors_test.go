package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestTranslateErrorDuplicateKey(t *testing.T) {
	writeErr := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error collection: storefront.pages index: slug_1"}},
	}

	err := translateError("insert", PagesCollection, "slug", writeErr)
	require.Error(t, err)
	assert.True(t, IsDuplicateKeyError(err))
	assert.False(t, IsNotFound(err))

	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "slug", dup.Field)
	assert.Equal(t, PagesCollection, dup.Collection)
}

func TestTranslateErrorNoDocuments(t *testing.T) {
	err := translateError("find", PagesCollection, "slug", mongo.ErrNoDocuments)
	assert.True(t, IsNotFound(err))
}

func TestTranslateErrorWrapsStorageFailures(t *testing.T) {
	cause := errors.New("connection reset")
	err := translateError("replace", CouponsCollection, "code", cause)

	assert.ErrorIs(t, err, cause)
	assert.False(t, IsNotFound(err))
	assert.False(t, IsDuplicateKeyError(err))
	assert.Equal(t, "replace coupons: connection reset", err.Error())
}

func TestTranslateErrorNil(t *testing.T) {
	assert.NoError(t, translateError("insert", PagesCollection, "slug", nil))
}
