package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

func newTestRouter(svc *Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Route("/payments", NewHandler(logger, svc).MountRoutes)
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, payload any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if authed {
		ctx := shared.ContextWithUser(req.Context(), &shared.CurrentUser{ID: 1, Username: "hindustan", Name: "Hindustan"})
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCreateThenGetPayment(t *testing.T) {
	svc, _ := newFixture(1000, 0)
	router := newTestRouter(svc)

	rr := postJSON(t, router, "/payments", paymentRequest(400), true)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.InDelta(t, 400, created.Amount, 1e-9)
	require.InDelta(t, 600, created.RemainingAmount, 1e-9)
	require.Equal(t, "CASH", created.Method)
	require.NotEmpty(t, created.TransactionID)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/payments/%d", created.ID), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched Payment
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	require.Equal(t, created.TransactionID, fetched.TransactionID)
}

func TestHandlerCreatePaymentRequiresUser(t *testing.T) {
	svc, _ := newFixture(1000, 0)
	router := newTestRouter(svc)

	rr := postJSON(t, router, "/payments", paymentRequest(400), false)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandlerRejectsOverCollection(t *testing.T) {
	svc, _ := newFixture(500, 0)
	router := newTestRouter(svc)

	rr := postJSON(t, router, "/payments", paymentRequest(600), true)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "pending")
}
