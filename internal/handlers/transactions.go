package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"finance-tracker/internal/models"
)

type transactionRequest struct {
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
}

func (req transactionRequest) parse() (models.NewTransaction, error) {
	amount, err := models.ParseAmount(req.Amount.String())
	if err != nil {
		return models.NewTransaction{}, err
	}
	typ, err := models.ParseTxType(req.Type)
	if err != nil {
		return models.NewTransaction{}, err
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return models.NewTransaction{}, err
	}
	return models.NewTransaction{
		Amount:      amount,
		Category:    req.Category,
		Type:        typ,
		Date:        date,
		Description: req.Description,
	}, nil
}

// ListTransactions returns the user's transactions, newest first.
// Optional from and to query parameters (YYYY-MM-DD) bound the dates, inclusive.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	period, err := rangeParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	txs, err := h.ledger.ListTransactions(r.Context(), user.ID, period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// CreateTransaction records a new transaction.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var req transactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	tx, err := req.parse()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.ledger.AddTransaction(r.Context(), user.ID, tx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// DeleteTransaction removes a transaction. Deleting a missing id succeeds.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.fail(w, r, models.ErrNoSelection)
		return
	}
	if err := h.ledger.DeleteTransaction(r.Context(), user.ID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func rangeParam(r *http.Request) (*models.DateRange, error) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" && to == "" {
		return nil, nil
	}
	var (
		period models.DateRange
		err    error
	)
	if period.From, err = models.ParseDate(from); err != nil {
		return nil, err
	}
	if period.To, err = models.ParseDate(to); err != nil {
		return nil, err
	}
	return &period, period.Validate()
}
