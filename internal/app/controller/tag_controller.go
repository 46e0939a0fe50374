package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=150"`
	Color string `json:"color" binding:"required,len=7,hexcolor"`
	Slug  string `json:"slug" binding:"required,max=50,slug"`
}

// ListTags returns every tag, unpaginated
// GET /api/tags/
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.ListTags()
	if err != nil {
		log.Error("Failed to list tags", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, tags)
}

// GetTag
// GET /api/tags/:id/
func (ctrl *TagController) GetTag(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.GetTag(id)
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.TagNotFound, "Tag not found.")
			return
		}
		respondStorageError(c, err, "get tag")
		return
	}

	c.JSON(http.StatusOK, tag)
}

// CreateTag (admin)
// POST /api/tags/
func (ctrl *TagController) CreateTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	tag, err := ctrl.tagService.CreateTag(req.Name, req.Color, req.Slug)
	if err != nil {
		respondStorageError(c, err, "create tag")
		return
	}

	log.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
	})
	c.JSON(http.StatusCreated, tag)
}
