package handlers

import (
	"encoding/json"
	"net/http"

	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
)

// ListBudgets returns the user's budgets keyed by category.
func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	budgets, err := h.ledger.ListBudgets(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

// SaveBudgets sets several budgets at once from a {"category": amount} body.
func (h *Handlers) SaveBudgets(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var req map[string]json.Number
	if !h.decode(w, r, &req) {
		return
	}
	amounts := make(map[string]money.Amount, len(req))
	for category, n := range req {
		a, err := models.ParseAmount(n.String())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		amounts[category] = a
	}

	if err := h.ledger.SaveBudgets(r.Context(), user.ID, amounts); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ListBudgets(w, r)
}

// PutBudget sets one category's budget from an {"amount": n} body.
func (h *Handlers) PutBudget(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	var req struct {
		Amount json.Number `json:"amount"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	amount, err := models.ParseAmount(req.Amount.String())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	category := r.PathValue("category")
	if err := h.ledger.UpsertBudget(r.Context(), user.ID, category, amount); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Budget{UserID: user.ID, Category: category, Amount: amount})
}
