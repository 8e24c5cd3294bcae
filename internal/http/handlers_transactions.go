package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"financeflow/internal/auth"
	"financeflow/internal/core"
	"financeflow/internal/ledger"
	applog "financeflow/internal/log"
)

type balanceResponse struct {
	Balance   decimal.Decimal `json:"balance"`
	Formatted string          `json:"formatted"`
}

func (b balanceResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Balance   json.Number `json:"balance"`
		Formatted string      `json:"formatted"`
	}{core.JSONNumber(b.Balance), b.Formatted})
}

// userID returns the id of the session user set by requireSession.
func userID(r *http.Request) string {
	sess, _ := auth.FromContext(r.Context())
	return sess.User.ID
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}
	txs, err := s.deps.Ledger.Transactions(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, core.Filter(txs, spec, s.now()))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in transactionInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	draft, err := in.draft()
	if err != nil {
		handleError(w, r, err)
		return
	}

	uid := userID(r)
	tx, err := s.deps.Ledger.Add(r.Context(), uid, draft)
	s.invalidate(uid)
	if err != nil {
		handleError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction created",
		applog.NewFields().WithOperation(applog.OpCreate).WithTransaction(tx.ID, tx.Category, tx.Amount).ToSlice()...)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in transactionInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	draft, err := in.draft()
	if err != nil {
		handleError(w, r, err)
		return
	}

	tx := core.Transaction{
		ID:       id,
		Type:     draft.Type,
		Amount:   draft.Amount,
		Category: draft.Category,
		Date:     draft.Date,
		Details:  draft.Details,
	}
	if draft.Amount.IsZero() {
		tx.Amount = tx.DetailsTotal()
	}

	uid := userID(r)
	updated, err := s.deps.Ledger.Edit(r.Context(), uid, tx)
	if err == nil || errors.Is(err, ledger.ErrPersist) {
		s.invalidate(uid)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction updated",
		applog.NewFields().WithOperation(applog.OpUpdate).WithTransaction(updated.ID, updated.Category, updated.Amount).ToSlice()...)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	uid := userID(r)
	err = s.deps.Ledger.Delete(r.Context(), uid, id)
	s.invalidate(uid)
	if err != nil {
		handleError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction deleted",
		applog.NewFields().WithOperation(applog.OpDelete).ToSlice()...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := s.deps.Ledger.Balance(r.Context(), userID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: bal, Formatted: core.FormatEuros(bal)})
}
