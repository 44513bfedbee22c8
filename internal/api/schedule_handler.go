package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitness-schedule/internal/domain"
	"alcyxob/fitness-schedule/internal/service"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves the week view and real schedule items.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- Request/Response Structs ---

type ScheduleItemRequest struct {
	Date     string `json:"date"` // YYYY-MM-DD inside the target week, required on create
	Timezone string `json:"timezone"`

	Day         *int   `json:"day" binding:"required,min=0,max=6"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime"`
	Type        string `json:"type"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Duration    *int   `json:"duration" binding:"omitempty,min=1"`
	Calories    *int   `json:"calories" binding:"omitempty,min=0"`

	IsRecurring      bool   `json:"isRecurring"`
	RepeatPattern    string `json:"repeatPattern" binding:"omitempty,oneof=daily weekly yearly"`
	RepeatInterval   int    `json:"repeatInterval" binding:"omitempty,min=1"`
	RepeatEndsOn     string `json:"repeatEndsOn"` // YYYY-MM-DD, inclusive
	RepeatDaysOfWeek []int  `json:"repeatDaysOfWeek" binding:"omitempty,dive,min=0,max=6"`
}

type WeekResponse struct {
	WeekStart string                `json:"weekStart"` // YYYY-MM-DD, always a Sunday
	Items     []domain.ScheduleItem `json:"items"`
}

// --- Handler Methods ---

// GetWeek godoc
// @Summary Get the schedule of one week
// @Description Returns real items and virtual occurrences of recurring items for the week containing date.
// @Tags Schedule
// @Produce json
// @Param date query string true "Any date inside the week (YYYY-MM-DD)"
// @Success 200 {object} WeekResponse
// @Failure 400 {object} gin.H "Missing or malformed date"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Security BearerAuth
// @Router /schedule/week [get]
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.scheduleService.GetWeek(c.Request.Context(), userID, date)
	if err != nil {
		respondWithServiceError(c, err, "load week")
		return
	}

	items := view.Items
	if items == nil {
		items = []domain.ScheduleItem{}
	}
	c.JSON(http.StatusOK, WeekResponse{
		WeekStart: view.WeekStart.Format(dateLayout),
		Items:     items,
	})
}

// CreateItem godoc
// @Summary Create a schedule item
// @Tags Schedule
// @Accept json
// @Produce json
// @Param item body ScheduleItemRequest true "Schedule item"
// @Success 201 {object} domain.ScheduleItem
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Security BearerAuth
// @Router /schedule/items [post]
func (h *ScheduleHandler) CreateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	input, ok := bindItemRequest(c, true)
	if !ok {
		return
	}

	item, err := h.scheduleService.CreateItem(c.Request.Context(), userID, input)
	if err != nil {
		respondWithServiceError(c, err, "create schedule item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem godoc
// @Summary Update a schedule item
// @Description Only real items can be updated; virtual occurrence ids return 404.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param item body ScheduleItemRequest true "Schedule item"
// @Success 200 {object} domain.ScheduleItem
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Item belongs to another user"
// @Failure 404 {object} gin.H "Item not found"
// @Security BearerAuth
// @Router /schedule/items/{id} [put]
func (h *ScheduleHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	input, ok := bindItemRequest(c, false)
	if !ok {
		return
	}

	item, err := h.scheduleService.UpdateItem(c.Request.Context(), userID, c.Param("id"), input)
	if err != nil {
		respondWithServiceError(c, err, "update schedule item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete a schedule item
// @Tags Schedule
// @Param id path string true "Item ID"
// @Success 204
// @Failure 403 {object} gin.H "Item belongs to another user"
// @Failure 404 {object} gin.H "Item not found"
// @Security BearerAuth
// @Router /schedule/items/{id} [delete]
func (h *ScheduleHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.scheduleService.DeleteItem(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithServiceError(c, err, "delete schedule item")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportWeek godoc
// @Summary Export a week as iCalendar
// @Description Uploads the merged week as an .ics file and returns a temporary download URL.
// @Tags Schedule
// @Produce json
// @Param date query string true "Any date inside the week (YYYY-MM-DD)"
// @Success 201 {object} service.WeekExport
// @Failure 400 {object} gin.H "Missing or malformed date"
// @Failure 502 {object} gin.H "Storage failure"
// @Security BearerAuth
// @Router /schedule/week/export [post]
func (h *ScheduleHandler) ExportWeek(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	export, err := h.scheduleService.ExportWeek(c.Request.Context(), userID, date)
	if err != nil {
		respondWithServiceError(c, err, "export week")
		return
	}
	c.JSON(http.StatusCreated, export)
}

func bindItemRequest(c *gin.Context, requireDate bool) (service.ScheduleItemInput, bool) {
	var req ScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.ScheduleItemInput{}, false
	}

	input := service.ScheduleItemInput{
		Timezone:         req.Timezone,
		Day:              *req.Day,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Type:             req.Type,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Difficulty:       req.Difficulty,
		Duration:         req.Duration,
		Calories:         req.Calories,
		IsRecurring:      req.IsRecurring,
		RepeatPattern:    domain.RepeatPattern(req.RepeatPattern),
		RepeatInterval:   req.RepeatInterval,
		RepeatDaysOfWeek: req.RepeatDaysOfWeek,
	}

	if requireDate || req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return service.ScheduleItemInput{}, false
		}
		input.WeekOf = date
	}
	if req.RepeatEndsOn != "" {
		endsOn, err := parseDate(req.RepeatEndsOn)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "repeatEndsOn must be formatted as YYYY-MM-DD")
			return service.ScheduleItemInput{}, false
		}
		input.RepeatEndsOn = &endsOn
	}
	return input, true
}
