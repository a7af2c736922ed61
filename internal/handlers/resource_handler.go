package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/repository"
	"storefront-cms-backend/internal/service"
	"storefront-cms-backend/pkg/logger"
	"storefront-cms-backend/pkg/validator"
)

// DuplicateMessages are returned when a write violates a unique field.
type DuplicateMessages struct {
	Create string
	Update string
}

var PageDuplicateMessages = DuplicateMessages{
	Create: "A page with this name or slug already exists.",
	Update: "Another page already uses this slug.",
}

// ResourceHandler exposes a collection as list/create and
// detail/replace/delete endpoints.
type ResourceHandler struct {
	service  service.ResourceUseCase
	entity   string
	messages DuplicateMessages
}

func NewResourceHandler(resourceService service.ResourceUseCase, entity string, messages DuplicateMessages) *ResourceHandler {
	return &ResourceHandler{
		service:  resourceService,
		entity:   entity,
		messages: messages,
	}
}

// Register mounts the handler on group under path.
func (h *ResourceHandler) Register(group gin.IRoutes, path string) {
	group.GET(path, h.GetAll)
	group.POST(path, h.Create)
	group.GET(path+"/:id", h.GetByID)
	group.PUT(path+"/:id", h.Replace)
	group.DELETE(path+"/:id", h.Delete)
}

func (h *ResourceHandler) GetAll(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *ResourceHandler) GetByID(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ResourceHandler) Create(c *gin.Context) {
	payload, err := validator.DecodeJSON(c.Request.Body)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	doc, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		h.respondError(c, err, h.messages.Create)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *ResourceHandler) Replace(c *gin.Context) {
	payload, err := validator.DecodeJSON(c.Request.Body)
	if err != nil {
		h.respondError(c, err, "")
		return
	}

	doc, err := h.service.Replace(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		h.respondError(c, err, h.messages.Update)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler) respondError(c *gin.Context, err error, duplicateMessage string) {
	respondError(c, err, h.entity, duplicateMessage)
}

// respondError maps service errors onto HTTP statuses. Validation errors
// are returned as their field map.
func respondError(c *gin.Context, err error, entity, duplicateMessage string) {
	var verr *validator.ValidationError
	var dup *repository.DuplicateKeyError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, verr.Fields)
	case errors.As(err, &dup):
		if duplicateMessage == "" {
			duplicateMessage = fmt.Sprintf("A %s with this %s already exists.", entity, dup.Field)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": duplicateMessage})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	default:
		logger.FromContext(c.Request.Context()).WithError(err).WithField("entity", entity).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
