/*
handlers.go - HTTP request handlers

PURPOSE:
  Translates HTTP requests into tracker calls and domain results into JSON
  responses. All domain rules live in ledger/ and tracker/; handlers only
  parse, delegate, and map errors to status codes.

ERROR MAPPING:
  - *ledger.ValidationError        -> 400 with the offending field
  - ledger.ErrInvalidInput family  -> 400
  - Err*NotFound                   -> 404
  - tracker.ErrReloadRequired      -> 409
  - *tracker.StoreError            -> 502
  - anything else                  -> 500
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/finance-tracker/ledger"
	"github.com/warp/finance-tracker/tracker"
)

// Handler holds the handlers' shared dependencies.
type Handler struct {
	tracker *tracker.Tracker
}

func NewHandler(t *tracker.Tracker) *Handler {
	return &Handler{tracker: t}
}

// =============================================================================
// HELPERS
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Error(), Field: vErr.Field})
		return
	}
	if ledger.IsInvalidInput(err) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if ledger.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if errors.Is(err, tracker.ErrReloadRequired) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	var sErr *tracker.StoreError
	if errors.As(err, &sErr) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: sErr.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// periodParam reads month/year query parameters. The month is 0-based, the
// way the client's month selector sends it. Missing parameters fall back to
// the current period.
func periodParam(r *http.Request) (ledger.Period, error) {
	p := ledger.CurrentPeriod()
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 0 || m > 11 {
			return ledger.Period{}, &ledger.ValidationError{Field: "month", Reason: "expected 0-11"}
		}
		p.Month = time.Month(m + 1)
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1970 {
			return ledger.Period{}, &ledger.ValidationError{Field: "year", Reason: "expected a four digit year"}
		}
		p.Year = y
	}
	return p, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := h.tracker.Transactions()
	out := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionDTO(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req SaveTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.tracker.SaveTransaction(r.Context(), draft, ""); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.TransactionID(chi.URLParam(r, "id"))
	var req SaveTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.tracker.SaveTransaction(r.Context(), draft, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := ledger.TransactionID(chi.URLParam(r, "id"))
	if err := h.tracker.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// =============================================================================
// CARDS
// =============================================================================

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := h.tracker.Cards()
	out := make([]CardDTO, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req SaveCardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := h.tracker.SaveCard(r.Context(), req.toCard(""))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cardDTO(card))
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id := ledger.CardID(chi.URLParam(r, "id"))
	var req SaveCardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	card, err := h.tracker.SaveCard(r.Context(), req.toCard(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cardDTO(card))
}

// DeleteCard removes the card and every transaction charged to it.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id := ledger.CardID(chi.URLParam(r, "id"))
	if err := h.tracker.DeleteCard(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) CardSummaries(w http.ResponseWriter, r *http.Request) {
	p, err := periodParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summaries := h.tracker.CardSummaries(p)
	out := make([]CardSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, cardSummaryDTO(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CardInvoice(w http.ResponseWriter, r *http.Request) {
	p, err := periodParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id := ledger.CardID(chi.URLParam(r, "id"))
	inv, err := h.tracker.Invoice(id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceDTO(inv, h.tracker.Users()))
}

// =============================================================================
// USERS
// =============================================================================

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.tracker.Users()
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userDTO(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req SaveUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.tracker.SaveUser(r.Context(), req.toUser(""))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userDTO(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := ledger.UserID(chi.URLParam(r, "id"))
	var req SaveUserRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.tracker.SaveUser(r.Context(), req.toUser(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userDTO(user))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := ledger.UserID(chi.URLParam(r, "id"))
	if err := h.tracker.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// =============================================================================
// VIEWS
// =============================================================================

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, err := periodParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardDTO(h.tracker.Dashboard(p)))
}

// Reload re-reads every collection from the store, clearing a dirty session.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
