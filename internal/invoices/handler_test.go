package invoices

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

	"github.com/hindustan-tiles/tiles-erp/internal/billing"
	"github.com/hindustan-tiles/tiles-erp/internal/shared"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(svc *Service) chi.Router {
	router := chi.NewRouter()
	router.Route("/invoices", NewHandler(newTestLogger(), svc).MountRoutes)
	return router
}

func asUser(req *http.Request) *http.Request {
	ctx := shared.ContextWithUser(req.Context(), &shared.CurrentUser{ID: 1, Username: "hindustan", Name: "Hindustan"})
	return req.WithContext(ctx)
}

func postJSON(t *testing.T, router chi.Router, path string, payload any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if authed {
		req = asUser(req)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandlerCreateThenGetInvoice(t *testing.T) {
	svc, _, _ := newFixture()
	router := newTestRouter(svc)

	rr := postJSON(t, router, "/invoices", gstRequest(), true)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created InvoiceWithState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, "INV-2026-0001", created.Number)
	require.InDelta(t, 118, created.FinalAmount, 1e-9)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/invoices/%d", created.ID), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched InvoiceWithState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	require.Equal(t, created.Number, fetched.Number)
	require.Len(t, fetched.Items, 1)
	require.Equal(t, billing.Quantity{Boxes: 1}, fetched.Items[0].Quantity)
}

func TestHandlerCreateInvoiceRequiresUser(t *testing.T) {
	svc, _, _ := newFixture()
	router := newTestRouter(svc)

	rr := postJSON(t, router, "/invoices", gstRequest(), false)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandlerCreateInvoiceValidationProblem(t *testing.T) {
	svc, _, _ := newFixture()
	router := newTestRouter(svc)

	req := gstRequest()
	req.Items[0].Quantity = billing.Quantity{}
	rr := postJSON(t, router, "/invoices", req, true)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "items.0.quantity")
}

func TestHandlerGetMissingInvoice(t *testing.T) {
	svc, _, _ := newFixture()
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/invoices/99", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerPrintInvoice(t *testing.T) {
	svc, _, _ := newFixture()
	router := newTestRouter(svc)

	rr := postJSON(t, router, "/invoices", gstRequest(), true)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created InvoiceWithState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/invoices/%d/print", created.ID), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Sharma Traders")
	require.Contains(t, rr.Body.String(), created.Number)
}
