package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"financeflow/internal/auth"
	"financeflow/internal/ledger"
	applog "financeflow/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Send writes headers, status and the JSON encoded body.
func (b *JSONResponseBuilder) Send(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(b.statusCode)
	if b.body == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(b.body)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	_ = NewJSONResponse().Status(status).Body(v).Send(w)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps domain and request errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, auth.ErrEmptyEmail):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleError logs err and writes the mapped response. Server errors get a
// generic message.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
		if errors.Is(err, ledger.ErrPersist) {
			msg = "could not save transactions"
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.NewFields().WithError(err).ToSlice()...)
	}
	writeError(w, status, msg)
}
