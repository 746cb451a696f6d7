package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"finance-tracker/internal/log"
	"finance-tracker/internal/report"
	"finance-tracker/internal/summary"
)

// Report exports the user's transactions. The format query parameter is
// pdf (default), md or html; from and to optionally bound the dates.
func (h *Handlers) Report(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
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
	if len(txs) == 0 {
		writeError(w, http.StatusNotFound, "no transactions found to export")
		return
	}

	doc := report.Build(user.Username, summary.TotalsOf(txs), txs, report.DefaultPageSize)

	var buf bytes.Buffer
	if err := report.Write(&buf, doc, format); err != nil {
		h.fail(w, r, err)
		return
	}

	h.log.Info("Report exported",
		log.FieldOperation, log.OpExport,
		log.FieldUserID, user.ID,
		log.FieldFormat, string(format),
		"rows", doc.Rows())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName(user.Username, format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
