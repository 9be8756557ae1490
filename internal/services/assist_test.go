package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
)

func geminiStub(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			body := `{"candidates":[{"content":{"parts":[{"text":` + text + `}]}}]}`
			w.Write([]byte(body))
		}
	}))
}

func TestRefine_Success(t *testing.T) {
	srv := geminiStub(t, http.StatusOK,
		`"{\"suggestedCategory\": \"Electrical\", \"refinedDescription\": \"The ceiling fan in Room 204 has stopped working.\"}"`)
	defer srv.Close()

	svc := services.NewAssistService(srv.URL, "test-key", "gemini-1.5-flash-latest", zap.NewNop().Sugar())
	res := svc.Refine(context.Background(), "fan not working")

	assert.Equal(t, "Electrical", res.SuggestedCategory)
	assert.Equal(t, "The ceiling fan in Room 204 has stopped working.", res.RefinedDescription)
}

func TestRefine_StripsCodeFence(t *testing.T) {
	srv := geminiStub(t, http.StatusOK,
		`"`+"```json\\n"+`{\"suggestedCategory\": \"Plumbing\", \"refinedDescription\": \"Tap leaking.\"}\n`+"```"+`"`)
	defer srv.Close()

	svc := services.NewAssistService(srv.URL, "test-key", "gemini-1.5-flash-latest", zap.NewNop().Sugar())
	res := svc.Refine(context.Background(), "tap leaks a lot")

	assert.Equal(t, "Plumbing", res.SuggestedCategory)
	assert.Equal(t, "Tap leaking.", res.RefinedDescription)
}

func TestRefine_RejectsUnknownCategory(t *testing.T) {
	srv := geminiStub(t, http.StatusOK,
		`"{\"suggestedCategory\": \"Carpentry\", \"refinedDescription\": \"Broken chair.\"}"`)
	defer srv.Close()

	svc := services.NewAssistService(srv.URL, "test-key", "gemini-1.5-flash-latest", zap.NewNop().Sugar())
	res := svc.Refine(context.Background(), "chair is broken")

	assert.Empty(t, res.SuggestedCategory)
	assert.Equal(t, "Broken chair.", res.RefinedDescription)
}

func TestRefine_FailuresLeaveDescriptionUnchanged(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("disabled without key", func(t *testing.T) {
		svc := services.NewAssistService("http://127.0.0.1:1", "", "m", logger)
		res := svc.Refine(context.Background(), "fan not working")
		assert.Equal(t, "fan not working", res.RefinedDescription)
		assert.Empty(t, res.SuggestedCategory)
	})

	t.Run("short description skipped", func(t *testing.T) {
		svc := services.NewAssistService("http://127.0.0.1:1", "k", "m", logger)
		res := svc.Refine(context.Background(), "fan")
		assert.Equal(t, "fan", res.RefinedDescription)
	})

	t.Run("upstream error swallowed", func(t *testing.T) {
		srv := geminiStub(t, http.StatusServiceUnavailable, "")
		defer srv.Close()
		svc := services.NewAssistService(srv.URL, "k", "m", logger)
		res := svc.Refine(context.Background(), "fan not working")
		assert.Equal(t, "fan not working", res.RefinedDescription)
		assert.Empty(t, res.SuggestedCategory)
	})

	t.Run("malformed model output swallowed", func(t *testing.T) {
		srv := geminiStub(t, http.StatusOK, `"this is not json"`)
		defer srv.Close()
		svc := services.NewAssistService(srv.URL, "k", "m", logger)
		res := svc.Refine(context.Background(), "fan not working")
		assert.Equal(t, "fan not working", res.RefinedDescription)
	})
}
