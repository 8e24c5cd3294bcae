package http

import (
	"net/http"

	"financeflow/internal/auth"
	"financeflow/internal/core"
	applog "financeflow/internal/log"
)

type loginResponse struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	sess, err := s.deps.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "User logged in",
		applog.NewFields().WithOperation(applog.OpLogin).WithUser(sess.User.ID).ToSlice()...)
	writeJSON(w, http.StatusOK, loginResponse{Token: sess.Token, User: sess.User})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	if err := s.deps.Auth.Logout(r.Context(), sess.Token); err != nil {
		handleError(w, r, err)
		return
	}
	s.deps.Ledger.Forget(sess.User.ID)
	s.invalidate(sess.User.ID)

	applog.FromContext(r.Context()).InfoContext(r.Context(), "User logged out",
		applog.NewFields().WithOperation(applog.OpLogout).ToSlice()...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	t, err := parseTypeParam(r.URL.Query().Get("type"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	cats := core.Categories()
	if t != core.AllTypes {
		cats = core.CategoriesFor(core.TransactionType(t))
	}
	writeJSON(w, http.StatusOK, cats)
}
