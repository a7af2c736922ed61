package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/validator"
)

type HeroHandler struct {
	heroService service.HeroUseCase
}

func NewHeroHandler(heroService service.HeroUseCase) *HeroHandler {
	return &HeroHandler{heroService: heroService}
}

func (h *HeroHandler) Get(c *gin.Context) {
	hero, err := h.heroService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err, "hero", "")
		return
	}
	c.JSON(http.StatusOK, hero)
}

func (h *HeroHandler) Update(c *gin.Context) {
	payload, err := validator.DecodeJSON(c.Request.Body)
	if err != nil {
		respondError(c, err, "hero", "")
		return
	}

	hero, err := h.heroService.Update(c.Request.Context(), payload)
	if err != nil {
		respondError(c, err, "hero", "")
		return
	}
	c.JSON(http.StatusOK, hero)
}
