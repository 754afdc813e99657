package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/mytrip-api/internal/domain/repository"
	"github.com/yourusername/mytrip-api/internal/handler/dto"
	"github.com/yourusername/mytrip-api/internal/service"
)

// BudgetHandler serves the category catalog, expense lines and per-category
// targets of a trip.
type BudgetHandler struct {
	budgetService *service.BudgetService
}

func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// ListCategories handles GET /budget-categories.
func (h *BudgetHandler) ListCategories(c *gin.Context) {
	categories, err := h.budgetService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func budgetItemInputFromRequest(req *dto.BudgetItemRequest) (service.BudgetItemInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return service.BudgetItemInput{}, err
	}
	return service.BudgetItemInput{
		CategoryID:    req.CategoryID,
		Title:         req.Title,
		PlannedAmount: req.PlannedAmount,
		ActualAmount:  req.ActualAmount,
		Date:          date,
	}, nil
}

// CreateItem handles POST /trips/:tripID/items.
func (h *BudgetHandler) CreateItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	var req dto.BudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}
	input, err := budgetItemInputFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	item, err := h.budgetService.CreateItem(user.ID, tripID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListItems handles GET /trips/:tripID/items with optional date_from,
// date_until and category_id filters.
func (h *BudgetHandler) ListItems(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	var filters repository.BudgetItemFilters
	if s := c.Query("date_from"); s != "" {
		t, err := parseDate(&s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
			return
		}
		filters.DateFrom = t
	}
	if s := c.Query("date_until"); s != "" {
		t, err := parseDate(&s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
			return
		}
		filters.DateUntil = t
	}
	if s := c.Query("category_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id", "error_type": "validation_error"})
			return
		}
		categoryID := int16(id)
		filters.CategoryID = &categoryID
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))

	items, err := h.budgetService.ListItems(user.ID, tripID, filters, limit, skip)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetItem handles GET /trips/:tripID/items/:itemID.
func (h *BudgetHandler) GetItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")
	itemID := c.GetUint("itemID")

	item, err := h.budgetService.GetItem(user.ID, tripID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /trips/:tripID/items/:itemID.
func (h *BudgetHandler) UpdateItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")
	itemID := c.GetUint("itemID")

	var req dto.BudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}
	input, err := budgetItemInputFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	item, err := h.budgetService.UpdateItem(user.ID, tripID, itemID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /trips/:tripID/items/:itemID.
func (h *BudgetHandler) DeleteItem(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")
	itemID := c.GetUint("itemID")

	if err := h.budgetService.DeleteItem(user.ID, tripID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertTarget handles PUT /trips/:tripID/targets.
func (h *BudgetHandler) UpsertTarget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	var req dto.BudgetTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	target, err := h.budgetService.UpsertTarget(user.ID, tripID, req.CategoryID, req.PlannedAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[BudgetHandler] Target for trip id=%d category id=%d set to %.2f by user id=%d",
		tripID, req.CategoryID, req.PlannedAmount, user.ID)
	c.JSON(http.StatusOK, target)
}

// ListTargets handles GET /trips/:tripID/targets.
func (h *BudgetHandler) ListTargets(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")

	targets, err := h.budgetService.ListTargets(user.ID, tripID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targets": targets})
}

// GetTarget handles GET /trips/:tripID/targets/:categoryID.
func (h *BudgetHandler) GetTarget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")
	categoryID, ok := parseCategoryParam(c)
	if !ok {
		return
	}

	target, err := h.budgetService.GetTarget(user.ID, tripID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// DeleteTarget handles DELETE /trips/:tripID/targets/:categoryID.
func (h *BudgetHandler) DeleteTarget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tripID := c.GetUint("tripID")
	categoryID, ok := parseCategoryParam(c)
	if !ok {
		return
	}

	if err := h.budgetService.DeleteTarget(user.ID, tripID, categoryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseCategoryParam(c *gin.Context) (int16, bool) {
	id, err := strconv.ParseInt(c.Param("categoryID"), 10, 16)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categoryID", "error_type": "validation_error"})
		c.Abort()
		return 0, false
	}
	return int16(id), true
}
