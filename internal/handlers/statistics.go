package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/summary"
)

// MonthRef names a calendar month.
type MonthRef struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// SummaryResponse is the monthly overview.
type SummaryResponse struct {
	MonthRef
	MonthName      string               `json:"month_name"`
	Period         models.DateRange     `json:"period"`
	Totals         summary.Totals       `json:"totals"`
	Balance        money.Amount         `json:"balance"`
	Budget         summary.BudgetStatus `json:"budget"`
	Prev           MonthRef             `json:"prev"`
	Next           MonthRef             `json:"next"`
	IsCurrentMonth bool                 `json:"is_current_month"`
}

// BreakdownResponse is a per-category breakdown with percentages.
type BreakdownResponse struct {
	Type       models.TxType    `json:"type"`
	Period     models.DateRange `json:"period"`
	Total      money.Amount     `json:"total"`
	Categories []summary.Share  `json:"categories"`
}

// Summary returns totals, balance and budget status for a month; the
// current month unless year and month are given.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	ref, err := h.monthParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	period, err := summary.Month(ref.Year, ref.Month)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	totals, err := h.summary.PeriodTotals(r.Context(), user.ID, period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status, err := h.summary.BudgetStatus(r.Context(), user.ID, period)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// Calculate previous and next month
	first := period.From.Time
	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)
	now := h.summary.Now()

	writeJSON(w, http.StatusOK, SummaryResponse{
		MonthRef:       ref,
		MonthName:      ref.Month.String(),
		Period:         period,
		Totals:         totals,
		Balance:        totals.Balance(),
		Budget:         status,
		Prev:           MonthRef{Year: prev.Year(), Month: prev.Month()},
		Next:           MonthRef{Year: next.Year(), Month: next.Month()},
		IsCurrentMonth: ref.Year == now.Year() && ref.Month == now.Month(),
	})
}

// Breakdown returns per-category sums for a month. The type query parameter
// selects Income or Expense and defaults to Expense.
func (h *Handlers) Breakdown(w http.ResponseWriter, r *http.Request) {
	ref, err := h.monthParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	period, err := summary.Month(ref.Year, ref.Month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.breakdown(w, r, period)
}

// YearToDateBreakdown returns per-category sums from January 1 through today.
func (h *Handlers) YearToDateBreakdown(w http.ResponseWriter, r *http.Request) {
	h.breakdown(w, r, models.YearToDate(h.summary.Now()))
}

func (h *Handlers) breakdown(w http.ResponseWriter, r *http.Request, period models.DateRange) {
	user := GetUserFromContext(r)

	typ := models.Expense
	if s := r.URL.Query().Get("type"); s != "" {
		var err error
		if typ, err = models.ParseTxType(s); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	shares, err := h.summary.CategoryShares(r.Context(), user.ID, typ, period)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var total money.Amount
	for _, s := range shares {
		total += s.Total
	}
	writeJSON(w, http.StatusOK, BreakdownResponse{Type: typ, Period: period, Total: total, Categories: shares})
}

// Dashboard returns the current-month overview and recent transactions.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	dash, err := h.summary.Dashboard(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// monthParam reads year and month query parameters, defaulting to the current month.
func (h *Handlers) monthParam(r *http.Request) (MonthRef, error) {
	now := h.summary.Now()
	ref := MonthRef{Year: now.Year(), Month: now.Month()}

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return MonthRef{}, fmt.Errorf("%w: year %q", models.ErrInvalidDate, s)
		}
		ref.Year = y
	}
	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return MonthRef{}, fmt.Errorf("%w: month %q", models.ErrInvalidDate, s)
		}
		ref.Month = time.Month(m)
	}
	return ref, nil
}
