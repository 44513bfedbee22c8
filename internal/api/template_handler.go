package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/service"

	"github.com/gin-gonic/gin"
)

// TemplateHandler serves schedule template generation and user preferences.
type TemplateHandler struct {
	generatorService service.GeneratorService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(generatorService service.GeneratorService) *TemplateHandler {
	return &TemplateHandler{generatorService: generatorService}
}

// --- Request/Response Structs ---

type GenerateTemplatesRequest struct {
	DaysPerWeek         *int     `json:"daysPerWeek" binding:"omitempty,min=1,max=7"`
	PreferredDays       []int    `json:"preferredDays" binding:"omitempty,dive,min=0,max=6"`
	Difficulty          string   `json:"difficulty"`
	Focus               []string `json:"focus"`
	PreferredStartTime  string   `json:"preferredStartTime"`
	RepeatIntervalWeeks *int     `json:"repeatIntervalWeeks" binding:"omitempty,min=1"`
	AllowedEquipment    []string `json:"allowedEquipment"`
	AllowBackToBack     *bool    `json:"allowBackToBack"`
	IncludeCardio       *bool    `json:"includeCardio"`
	Count               *int     `json:"count" binding:"omitempty,min=1,max=6"`
}

type ApplyTemplateRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD inside the target week
}

// --- Handler Methods ---

// GenerateTemplates godoc
// @Summary Generate schedule templates
// @Description Builds up to six weekly plans from the user's workout templates. Missing criteria fall back to stored preferences.
// @Tags Templates
// @Accept json
// @Produce json
// @Param criteria body GenerateTemplatesRequest false "Generation criteria"
// @Success 200 {array} domain.GeneratedScheduleTemplate
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 422 {object} gin.H "No workout templates available"
// @Security BearerAuth
// @Router /schedule/templates/generate [post]
func (h *TemplateHandler) GenerateTemplates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateTemplatesRequest
	// An empty body means "use my preferences"
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}

	templates, err := h.generatorService.GenerateTemplates(c.Request.Context(), userID, service.GenerateRequest{
		DaysPerWeek:         req.DaysPerWeek,
		PreferredDays:       req.PreferredDays,
		Difficulty:          req.Difficulty,
		Focus:               req.Focus,
		PreferredStartTime:  req.PreferredStartTime,
		RepeatIntervalWeeks: req.RepeatIntervalWeeks,
		AllowedEquipment:    req.AllowedEquipment,
		AllowBackToBack:     req.AllowBackToBack,
		IncludeCardio:       req.IncludeCardio,
		Count:               req.Count,
	})
	if err != nil {
		respondWithServiceError(c, err, "generate templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// SaveTemplate godoc
// @Summary Save a generated schedule template
// @Tags Templates
// @Accept json
// @Produce json
// @Param template body domain.GeneratedScheduleTemplate true "Template"
// @Success 201 {object} domain.GeneratedScheduleTemplate
// @Failure 400 {object} gin.H "Invalid input"
// @Security BearerAuth
// @Router /schedule/templates [post]
func (h *TemplateHandler) SaveTemplate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var tpl domain.GeneratedScheduleTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	saved, err := h.generatorService.SaveTemplate(c.Request.Context(), userID, tpl)
	if err != nil {
		respondWithServiceError(c, err, "save template")
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// ListTemplates godoc
// @Summary List saved schedule templates
// @Tags Templates
// @Produce json
// @Success 200 {array} domain.GeneratedScheduleTemplate
// @Security BearerAuth
// @Router /schedule/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	templates, err := h.generatorService.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		respondWithServiceError(c, err, "list templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// ApplyTemplate godoc
// @Summary Apply a saved template to a week
// @Description Copies the template items into the week as real recurring items.
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param body body ApplyTemplateRequest true "Target week"
// @Success 201 {array} domain.ScheduleItem
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Template belongs to another user"
// @Failure 404 {object} gin.H "Template not found"
// @Security BearerAuth
// @Router /schedule/templates/{id}/apply [post]
func (h *TemplateHandler) ApplyTemplate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.generatorService.ApplyTemplate(c.Request.Context(), userID, c.Param("id"), date)
	if err != nil {
		respondWithServiceError(c, err, "apply template")
		return
	}
	c.JSON(http.StatusCreated, items)
}

// UpdatePreferences godoc
// @Summary Update stored generator preferences
// @Tags Users
// @Accept json
// @Produce json
// @Param preferences body domain.WorkoutPreferences true "Preferences"
// @Success 200 {object} domain.WorkoutPreferences
// @Failure 400 {object} gin.H "Invalid input"
// @Security BearerAuth
// @Router /me/preferences [put]
func (h *TemplateHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var prefs domain.WorkoutPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	updated, err := h.generatorService.UpdatePreferences(c.Request.Context(), userID, prefs)
	if err != nil {
		respondWithServiceError(c, err, "update preferences")
		return
	}
	c.JSON(http.StatusOK, updated)
}
