package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/handlers"
)

func TestByComplaint_MalformedID(t *testing.T) {
	// complaint_id is a UUID column; a malformed path id must come back as
	// not-found, never reach the database.
	h := handlers.NewActivityHandler(nil, zap.NewNop().Sugar())
	r := chi.NewRouter()
	r.Get("/complaints/{id}/events", h.ByComplaint)

	req := httptest.NewRequest(http.MethodGet, "/complaints/not-a-uuid/events", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
