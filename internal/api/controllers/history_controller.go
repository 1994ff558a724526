package controllers

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"strconv"
	"tripplanner/internal/services"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

type HistoryController struct {
	historyService services.SearchHistoryServiceInterface
}

func NewHistoryController(historyService services.SearchHistoryServiceInterface) *HistoryController {
	return &HistoryController{
		historyService: historyService,
	}
}

// ListRecentSearches godoc
// @Summary List recent trip searches
// @Description Fetch a paginated list of the trip queries submitted from the caller's session, newest first
// @Tags History
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {array} []response_models.TripSearchResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/trip/searches [get]
func (h *HistoryController) ListRecentSearches(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-100)")
		return
	}

	searches, err := h.historyService.ListRecentSearches(c.Request.Context(), c.GetString(middleware.SessionIDKey), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, searches, "Trip searches fetched successfully")
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /healthz [get]
func Health(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
}
