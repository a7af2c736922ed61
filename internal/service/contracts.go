package service

import (
	"context"

	"storefront-cms-backend/internal/models"
)

type ResourceUseCase interface {
	Name() string
	List(ctx context.Context) ([]map[string]any, error)
	Get(ctx context.Context, id string) (map[string]any, error)
	Create(ctx context.Context, payload map[string]any) (map[string]any, error)
	Replace(ctx context.Context, id string, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, id string) error
}

type HeroUseCase interface {
	Get(ctx context.Context) (map[string]any, error)
	Update(ctx context.Context, payload map[string]any) (map[string]any, error)
}

type AuthUseCase interface {
	Obtain(models.TokenRequest) (*models.TokenPairResponse, error)
	Refresh(models.RefreshRequest) (*models.AccessTokenResponse, error)
	ValidateToken(tokenString, tokenType string) (*TokenClaims, error)
}

var (
	_ ResourceUseCase = (*ResourceService[*models.Page])(nil)
	_ HeroUseCase     = (*HeroService)(nil)
	_ AuthUseCase     = (*AuthService)(nil)
)
