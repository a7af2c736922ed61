package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-cms-backend/internal/models"
	"storefront-cms-backend/pkg/validator"
)

func TestHeroGetCreatesDefaultOnce(t *testing.T) {
	repo := newMemoryHeroRepository()
	svc := NewHeroService(repo, nil)
	ctx := context.Background()

	first, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultHeroTitle, first["title"])
	assert.Equal(t, models.DefaultHeroBackgroundImage, first["backgroundImage"])
	assert.Equal(t, true, first["is_active"])

	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, 1, repo.count())
}

func TestHeroUpdateCreatesWhenMissing(t *testing.T) {
	repo := newMemoryHeroRepository()
	svc := NewHeroService(repo, nil)

	hero, err := svc.Update(context.Background(), payload(t, `{"title": "Monsoon sale"}`))
	require.NoError(t, err)
	assert.Equal(t, "Monsoon sale", hero["title"])
	assert.Equal(t, models.DefaultHeroCTAText, hero["ctaText"])
	assert.Equal(t, 1, repo.count())
}

func TestHeroUpdateKeepsIdentifier(t *testing.T) {
	repo := newMemoryHeroRepository()
	svc := NewHeroService(repo, nil)
	ctx := context.Background()

	original, err := svc.Get(ctx)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, payload(t, `{"title": "Harvest", "subtitle": ""}`))
	require.NoError(t, err)
	assert.Equal(t, original["id"], updated["id"])
	assert.Equal(t, "", updated["subtitle"])
	assert.Equal(t, models.DefaultHeroDescription, updated["description"])

	fetched, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Harvest", fetched["title"])
	assert.Equal(t, 1, repo.count())
}

func TestHeroUpdateRequiresTitle(t *testing.T) {
	svc := NewHeroService(newMemoryHeroRepository(), nil)

	_, err := svc.Update(context.Background(), payload(t, `{"subtitle": "x"}`))
	assert.True(t, validator.IsValidationError(err))
}
