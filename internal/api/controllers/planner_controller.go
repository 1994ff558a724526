package controllers

import (
	"errors"
	"github.com/gin-gonic/gin"
	"net/http"
	"sync"
	"time"
	"tripplanner/internal/infra"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/services"
	"tripplanner/internal/view"
	mem "tripplanner/pkg/memcache"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

type PlannerController struct {
	factory   *view.Factory
	sessions  mem.SessionStore[*view.PlannerView]
	validator services.TripValidatorInterface
	layout    view.PlanLayout
	ttl       time.Duration

	// serializes get-or-create so one session never gets two views
	mu sync.Mutex
}

func NewPlannerController(
	factory *view.Factory,
	sessions mem.SessionStore[*view.PlannerView],
	validator services.TripValidatorInterface,
	cfg *infra.Config) *PlannerController {

	return &PlannerController{
		factory:   factory,
		sessions:  sessions,
		validator: validator,
		layout:    view.ParsePlanLayout(cfg.PlanLayout),
		ttl:       cfg.SessionTTL,
	}
}

// Index godoc
// @Summary Render the planner page
// @Description Renders the current step of the session's planner. On the form step the
// @Description startDate, endDate, budget and tripType query parameters prefill the form.
// @Tags Planner
// @Produce html
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Param budget query number false "Budget"
// @Param tripType query string false "ski, beach or city"
// @Success 200 {object} view.PageModel
// @Router / [get]
func (p *PlannerController) Index(c *gin.Context) {
	v := p.viewFor(c)
	state := v.State()

	if fs, ok := state.(view.FormState); ok && fs.Form.IsBlank() {
		if form := request_models.TripFormFromQuery(c.Request.URL.Query()); !form.IsBlank() {
			state = view.FormState{Form: form, Errors: p.validator.Validate(form)}
		}
	}

	p.renderPage(c, http.StatusOK, state)
}

// ValidateForm godoc
// @Summary Validate trip form fields
// @Description Re-evaluates the per-field messages for the four raw form values. Nothing is stored.
// @Tags Planner
// @Accept json
// @Produce json
// @Param request body request_models.TripForm true "Raw form values"
// @Success 200 {object} services.FieldErrors
// @Failure 400 {object} utils.APIResponse
// @Router /trip/validate [post]
func (p *PlannerController) ValidateForm(c *gin.Context) {
	var form request_models.TripForm
	if err := c.ShouldBind(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	utils.RespondSuccess(c, p.validator.Validate(form), "Form validated")
}

// SubmitQuery godoc
// @Summary Submit the trip query
// @Description Validates the form and starts the suggestions fetch. Browsers are redirected to a
// @Description deep link that mirrors the form in the query string.
// @Tags Planner
// @Accept x-www-form-urlencoded,json
// @Produce html,json
// @Param request body request_models.TripForm true "Raw form values"
// @Success 200 {object} view.PageModel
// @Success 303
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /trip/submit [post]
func (p *PlannerController) SubmitQuery(c *gin.Context) {
	var form request_models.TripForm
	if err := c.ShouldBind(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid form payload")
		return
	}

	v := p.viewFor(c)
	fieldErrs, err := v.SubmitQuery(form)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidTripForm) {
			if wantsJSON(c) {
				utils.RespondErrorWithData(c, http.StatusUnprocessableEntity, "Trip form is invalid", fieldErrs)
				return
			}
			p.renderPage(c, http.StatusUnprocessableEntity, v.State())
			return
		}
		p.handleIntentError(c, err)
		return
	}

	if wantsJSON(c) {
		utils.RespondSuccess(c, view.Render(v.State(), p.layout), "Trip query submitted")
		return
	}
	c.Redirect(http.StatusSeeOther, "/?"+form.QueryValues().Encode())
}

// SelectDestination godoc
// @Summary Select a suggested destination
// @Description Moves to the itinerary step and starts the daily plan fetch for the suggestion at index.
// @Tags Planner
// @Accept x-www-form-urlencoded,json
// @Produce html,json
// @Param request body request_models.SelectDestinationRequest true "Suggestion index"
// @Success 200 {object} view.PageModel
// @Success 303
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /trip/select [post]
func (p *PlannerController) SelectDestination(c *gin.Context) {
	var req request_models.SelectDestinationRequest
	if err := c.ShouldBind(&req); err != nil || req.Index == nil {
		utils.RespondError(c, http.StatusBadRequest, "Suggestion index is required")
		return
	}

	v := p.viewFor(c)
	if err := v.SelectDestination(*req.Index); err != nil {
		p.handleIntentError(c, err)
		return
	}

	if wantsJSON(c) {
		utils.RespondSuccess(c, view.Render(v.State(), p.layout), "Destination selected")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Reset godoc
// @Summary Start over
// @Description Closes the session's planner, cancelling any fetch still in flight.
// @Tags Planner
// @Produce html,json
// @Success 200 {object} utils.APIResponse
// @Success 303
// @Router /trip/reset [post]
func (p *PlannerController) Reset(c *gin.Context) {
	p.mu.Lock()
	p.sessions.Delete(c.GetString(middleware.SessionIDKey))
	p.mu.Unlock()

	if wantsJSON(c) {
		utils.RespondSuccess(c, nil, "Planner reset")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// GetState godoc
// @Summary Current planner state
// @Description JSON rendering of the page model for the session's current step
// @Tags Planner
// @Produce json
// @Success 200 {object} view.PageModel
// @Router /api/trip/state [get]
func (p *PlannerController) GetState(c *gin.Context) {
	v := p.viewFor(c)
	utils.RespondSuccess(c, view.Render(v.State(), p.layout), "Planner state fetched successfully")
}

func (p *PlannerController) viewFor(c *gin.Context) *view.PlannerView {
	id := c.GetString(middleware.SessionIDKey)

	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.sessions.Get(id); ok {
		return v
	}
	v := p.factory.New(id)
	p.sessions.Set(id, v, p.ttl)
	return v
}

func (p *PlannerController) renderPage(c *gin.Context, status int, state view.State) {
	page := view.Render(state, p.layout)
	if wantsJSON(c) {
		c.JSON(status, utils.APIResponse{
			Status:  "success",
			Code:    status,
			TraceID: c.GetString("trace_id"),
			Data:    page,
		})
		return
	}
	c.HTML(status, view.PageTemplate, page)
}

// handleIntentError sends browsers back to the page; API callers get the
// mapped error.
func (p *PlannerController) handleIntentError(c *gin.Context, err error) {
	if wantsJSON(c) {
		utils.HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
