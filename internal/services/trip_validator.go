package services

import (
	"math"
	"strconv"
	"strings"
	"time"
	"tripplanner/internal/models/request_models"
	"tripplanner/pkg/utils"
)

const (
	MsgStartDateExpired  = "Start date has expired"
	MsgEndBeforeStart    = "End date cannot be before start date"
	MsgBudgetNotPositive = "Budget must be greater than 0"
	MsgTripTypeMissing   = "Please select a trip type"

	MsgStartDateInvalid = "Invalid start date"
	MsgEndDateInvalid   = "Invalid end date"
	MsgBudgetInvalid    = "Budget must be a number"

	MsgStartDateRequired = "Please select a start date"
	MsgEndDateRequired   = "Please select an end date"
	MsgBudgetRequired    = "Please enter a budget"
)

// FieldErrors holds one message per form field; empty means valid.
type FieldErrors struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Budget    string `json:"budget,omitempty"`
	TripType  string `json:"tripType,omitempty"`
}

func (e FieldErrors) Empty() bool {
	return e.StartDate == "" && e.EndDate == "" && e.Budget == "" && e.TripType == ""
}

type TripValidatorInterface interface {
	// Validate re-evaluates every field; it runs on each change.
	Validate(form request_models.TripForm) FieldErrors
	// ValidateForSubmit also flags empty fields and builds the query when
	// nothing is wrong.
	ValidateForSubmit(form request_models.TripForm) (request_models.TripQuery, FieldErrors, error)
}

type TripValidator struct {
	loc *time.Location
	now func() time.Time
}

func NewTripValidator(loc *time.Location, now func() time.Time) TripValidatorInterface {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &TripValidator{loc: loc, now: now}
}

func (v *TripValidator) Validate(form request_models.TripForm) FieldErrors {
	errs, _ := v.check(form)
	return errs
}

func (v *TripValidator) ValidateForSubmit(form request_models.TripForm) (request_models.TripQuery, FieldErrors, error) {
	errs, q := v.check(form)

	if strings.TrimSpace(form.StartDate) == "" && errs.StartDate == "" {
		errs.StartDate = MsgStartDateRequired
	}
	if strings.TrimSpace(form.EndDate) == "" && errs.EndDate == "" {
		errs.EndDate = MsgEndDateRequired
	}
	if strings.TrimSpace(form.Budget) == "" && errs.Budget == "" {
		errs.Budget = MsgBudgetRequired
	}
	if strings.TrimSpace(form.TripType) == "" && errs.TripType == "" {
		errs.TripType = MsgTripTypeMissing
	}

	if !errs.Empty() {
		return request_models.TripQuery{}, errs, utils.ErrInvalidTripForm
	}
	return q, errs, nil
}

// check applies the per-field rules and fills in whatever parsed cleanly.
func (v *TripValidator) check(form request_models.TripForm) (FieldErrors, request_models.TripQuery) {
	var (
		errs    FieldErrors
		q       request_models.TripQuery
		startOK bool
	)
	today := utils.StartOfDay(v.now(), v.loc)

	if raw := strings.TrimSpace(form.StartDate); raw != "" {
		start, err := utils.ParseDate(raw, v.loc)
		switch {
		case err != nil:
			errs.StartDate = MsgStartDateInvalid
		case start.Before(today):
			errs.StartDate = MsgStartDateExpired
			q.StartDate, startOK = start, true
		default:
			q.StartDate, startOK = start, true
		}
	}

	if raw := strings.TrimSpace(form.EndDate); raw != "" {
		end, err := utils.ParseDate(raw, v.loc)
		switch {
		case err != nil:
			errs.EndDate = MsgEndDateInvalid
		case startOK && end.Before(q.StartDate):
			errs.EndDate = MsgEndBeforeStart
		default:
			q.EndDate = end
		}
	}

	if raw := strings.TrimSpace(form.Budget); raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil || math.IsNaN(budget) || math.IsInf(budget, 0):
			errs.Budget = MsgBudgetInvalid
		case budget <= 0:
			errs.Budget = MsgBudgetNotPositive
		default:
			q.Budget = budget
		}
	}

	if tripType, ok := request_models.ParseTripType(form.TripType); ok {
		q.TripType = tripType
	} else {
		errs.TripType = MsgTripTypeMissing
	}

	return errs, q
}
