package handlers

import "net/http"

// Routes registers every API route on a new ServeMux.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Healthz)

	// Public routes
	mux.HandleFunc("POST /api/signup", h.Signup)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("GET /api/categories", h.Categories)

	// Protected routes
	protected := func(fn http.HandlerFunc) http.Handler { return h.AuthMiddleware(fn) }
	mux.Handle("GET /api/me", protected(h.Me))
	mux.Handle("GET /api/transactions", protected(h.ListTransactions))
	mux.Handle("POST /api/transactions", protected(h.CreateTransaction))
	mux.Handle("DELETE /api/transactions/{id}", protected(h.DeleteTransaction))
	mux.Handle("GET /api/budgets", protected(h.ListBudgets))
	mux.Handle("PUT /api/budgets", protected(h.SaveBudgets))
	mux.Handle("PUT /api/budgets/{category}", protected(h.PutBudget))
	mux.Handle("GET /api/summary", protected(h.Summary))
	mux.Handle("GET /api/breakdown", protected(h.Breakdown))
	mux.Handle("GET /api/breakdown/ytd", protected(h.YearToDateBreakdown))
	mux.Handle("GET /api/dashboard", protected(h.Dashboard))
	mux.Handle("GET /api/report", protected(h.Report))

	return mux
}
