package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripjournal/tripjournal/internal/models"
)

const defaultTagColor = "#6c757d"

// TagRequest represents a tag create request
type TagRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Category string `json:"category" validate:"required"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

// TagDTO is a tag as returned by the API
type TagDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

func tagDTO(t *models.Tag) TagDTO {
	return TagDTO{ID: t.ID, Name: t.Name, Category: t.Category, Color: t.Color}
}

func (s *Server) listTags(c *gin.Context) {
	query := s.db.Order("name")
	if category := strings.ToUpper(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	var tags []models.Tag
	if err := query.Find(&tags).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list tags")
		respondError(c, http.StatusInternalServerError, "Failed to list tags")
		return
	}
	respond(c, http.StatusOK, "", tagDTOs(tags))
}

func (s *Server) searchTags(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		respondError(c, http.StatusBadRequest, "keyword is required")
		return
	}

	var tags []models.Tag
	if err := s.db.Where("name LIKE ?", "%"+keyword+"%").Order("name").Find(&tags).Error; err != nil {
		s.logger.Error().Err(err).Str("keyword", keyword).Msg("Failed to search tags")
		respondError(c, http.StatusInternalServerError, "Failed to search tags")
		return
	}
	respond(c, http.StatusOK, "", tagDTOs(tags))
}

func (s *Server) createTag(c *gin.Context) {
	var req TagRequest
	if !s.bindJSON(c, &req) {
		return
	}

	category := strings.ToUpper(req.Category)
	if !slices.Contains(models.TagCategories, category) {
		respondError(c, http.StatusBadRequest, "Unknown tag category "+req.Category)
		return
	}

	name := strings.TrimSpace(req.Name)
	var count int64
	if err := s.db.Model(&models.Tag{}).Where("name = ?", name).Count(&count).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to check tag name")
		respondError(c, http.StatusInternalServerError, "Failed to create tag")
		return
	}
	if count > 0 {
		respondError(c, http.StatusConflict, "Tag already exists: "+name)
		return
	}

	color := req.Color
	if color == "" {
		color = defaultTagColor
	}

	tag := &models.Tag{Name: name, Category: category, Color: color}
	if err := s.db.Create(tag).Error; err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("Failed to create tag")
		respondError(c, http.StatusInternalServerError, "Failed to create tag")
		return
	}

	s.logger.Info().Int64("tag_id", tag.ID).Str("name", name).Msg("Tag created")
	respond(c, http.StatusCreated, "Tag created", tagDTO(tag))
}
