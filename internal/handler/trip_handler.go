package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/mytrip-api/internal/domain/entity"
	"github.com/yourusername/mytrip-api/internal/domain/repository"
	"github.com/yourusername/mytrip-api/internal/handler/dto"
	"github.com/yourusername/mytrip-api/internal/service"
)

// TripHandler serves trip CRUD and the spreadsheet export.
type TripHandler struct {
	tripService   *service.TripService
	budgetService *service.BudgetService
}

func NewTripHandler(tripService *service.TripService, budgetService *service.BudgetService) *TripHandler {
	return &TripHandler{
		tripService:   tripService,
		budgetService: budgetService,
	}
}

// parseDate parses an optional YYYY-MM-DD string.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", *s)
	}
	return &t, nil
}

func tripInputFromRequest(req *dto.TripRequest) (service.TripInput, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return service.TripInput{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return service.TripInput{}, err
	}
	return service.TripInput{
		Name:         req.Name,
		Destination:  req.Destination,
		StartDate:    start,
		EndDate:      end,
		CurrencyCode: req.CurrencyCode,
		TotalBudget:  req.TotalBudget,
	}, nil
}

// Create handles POST /trips.
func (h *TripHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}
	input, err := tripInputFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	trip, err := h.tripService.Create(user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// List handles GET /trips with optional start_from/end_until date filters.
func (h *TripHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var filters repository.TripFilters
	if s := c.Query("start_from"); s != "" {
		t, err := parseDate(&s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
			return
		}
		filters.StartFrom = t
	}
	if s := c.Query("end_until"); s != "" {
		t, err := parseDate(&s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
			return
		}
		filters.EndUntil = t
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))

	trips, err := h.tripService.List(user.ID, filters, limit, skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// Get handles GET /trips/:tripID.
func (h *TripHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	trip, err := h.tripService.GetOwned(user.ID, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// Update handles PUT /trips/:tripID.
func (h *TripHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	var req dto.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}
	input, err := tripInputFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	trip, err := h.tripService.Update(user.ID, tripID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// Delete handles DELETE /trips/:tripID.
func (h *TripHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	if err := h.tripService.Delete(user.ID, tripID); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[TripHandler] Trip id=%d deleted by user id=%d", tripID, user.ID)
	c.Status(http.StatusNoContent)
}

// Export handles GET /trips/:tripID/export and streams the trip's budget as
// an xlsx workbook.
func (h *TripHandler) Export(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	trip, err := h.tripService.GetOwned(user.ID, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.budgetService.ListAllItems(user.ID, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	targets, err := h.budgetService.ListTargets(user.ID, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	categories, err := h.budgetService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}

	h.exportXLSX(c, trip, items, targets, categories)
}

func (h *TripHandler) exportXLSX(c *gin.Context, trip *entity.Trip, items []entity.BudgetItem, targets []entity.TripBudgetTarget, categories []entity.BudgetCategory) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"trip-%d-budget.xlsx\"", trip.ID))

	labels := make(map[int16]string, len(categories))
	for _, cat := range categories {
		labels[cat.ID] = cat.Label
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Budget"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[TripHandler] Failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file", "error_type": "internal_server_error"})
		return
	}

	headers := []interface{}{"Category", "Title", "Date", "Planned", "Actual", "Target"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[TripHandler] Failed to write headers: %v", err)
	}

	targetByCategory := make(map[int16]float64, len(targets))
	for _, t := range targets {
		targetByCategory[t.CategoryID] = t.PlannedAmount
	}

	for i, item := range items {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)

		date := ""
		if item.Date != nil {
			date = item.Date.Format(dto.DateLayout)
		}
		target := ""
		if v, ok := targetByCategory[item.CategoryID]; ok {
			target = strconv.FormatFloat(v, 'f', 2, 64)
		}

		row := []interface{}{
			sanitizeForExcel(labels[item.CategoryID]),
			sanitizeForExcel(item.Title),
			date,
			item.PlannedAmount,
			item.ActualAmount,
			target,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[TripHandler] Failed to write row %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[TripHandler] Stream writer flush failed: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[TripHandler] Failed to write Excel response: %v", err)
	}
}

// sanitizeForExcel escapes values that would otherwise start a formula in
// Excel/LibreOffice.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
