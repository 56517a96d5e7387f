package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/spam-classifier/internal/core"
)

func newTestClient(url string) *Client {
	return NewClient(url+"/predict", url+"/", 5*time.Second, zap.NewNop())
}

func TestClient_Classify(t *testing.T) {
	t.Run("successful classification", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/predict", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req core.ClassificationRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, "Win money now!!!", req.Text)

			w.Header().Set("Content-Type", "application/json")
			_, err = w.Write([]byte(`{"status":"success","results":[{"category":"spam","confidence":0.97}]}`))
			require.NoError(t, err)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		resp, err := client.Classify(context.Background(), core.ClassificationRequest{Text: "Win money now!!!"})

		require.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "spam", resp.Results[0].Category)
		assert.Equal(t, 0.97, resp.Results[0].Confidence)
	})

	t.Run("empty results are returned as-is", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`))
		}))
		defer server.Close()

		resp, err := newTestClient(server.URL).Classify(context.Background(), core.ClassificationRequest{Text: "x"})

		require.NoError(t, err)
		assert.Empty(t, resp.Results)
	})
}

func TestClient_ClassifyErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    core.ErrorKind
		wantMessage string
	}{
		{
			name:        "string detail",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":"text field required"}`,
			wantKind:    core.KindApplication,
			wantMessage: "text field required",
		},
		{
			name:        "list detail",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":[{"loc":["body","text"],"msg":"field required","type":"value_error.missing"}]}`,
			wantKind:    core.KindApplication,
			wantMessage: "field required",
		},
		{
			name:        "string detail kept verbatim",
			status:      http.StatusBadRequest,
			body:        `{"detail":"  Text too long \n"}`,
			wantKind:    core.KindApplication,
			wantMessage: "  Text too long \n",
		},
		{
			name:        "blank string detail",
			status:      http.StatusBadRequest,
			body:        `{"detail":"   "}`,
			wantKind:    core.KindApplication,
			wantMessage: "API request failed",
		},
		{
			name:        "json body without detail",
			status:      http.StatusBadRequest,
			body:        `{"error":"nope"}`,
			wantKind:    core.KindApplication,
			wantMessage: "API request failed",
		},
		{
			name:        "unparseable error body",
			status:      http.StatusInternalServerError,
			body:        "internal error",
			wantKind:    core.KindApplication,
			wantMessage: "API request failed",
		},
		{
			name:        "empty error body",
			status:      http.StatusServiceUnavailable,
			wantKind:    core.KindApplication,
			wantMessage: "API request failed",
		},
		{
			name:        "unparseable success body",
			status:      http.StatusOK,
			body:        "<html>not json</html>",
			wantKind:    core.KindTransport,
			wantMessage: "Unable to classify email. Ensure API server is running.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Classify(context.Background(), core.ClassificationRequest{Text: "x"})

			require.Error(t, err)
			var cerr *core.ClassificationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.wantKind, cerr.Kind)
			assert.Equal(t, tt.wantMessage, cerr.Message)
			if tt.wantKind == core.KindApplication {
				assert.Equal(t, tt.status, cerr.StatusCode)
			}
		})
	}

	t.Run("connection error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestClient(url).Classify(context.Background(), core.ClassificationRequest{Text: "x"})

		var cerr *core.ClassificationError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, core.KindTransport, cerr.Kind)
	})
}

func TestClient_Health(t *testing.T) {
	t.Run("active service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			_, _ = w.Write([]byte(`{"service":"Email Spam Classifier","status":"active"}`))
		}))
		defer server.Close()

		health, err := newTestClient(server.URL).Health(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "active", health.Status)
		assert.Equal(t, "Email Spam Classifier", health.Service)
	})

	t.Run("unhealthy service", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Health(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})
}

// TestClient_WithController drives full lifecycles against a fake endpoint
func TestClient_WithController(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantPhase core.Phase
		wantView  *core.ResultViewModel
		wantError string
	}{
		{
			name:      "spam",
			status:    http.StatusOK,
			body:      `{"results":[{"category":"spam","confidence":0.97}]}`,
			wantPhase: core.PhaseSucceeded,
			wantView:  &core.ResultViewModel{IsSpam: true, ConfidencePercent: "97.00", Label: "SPAM"},
		},
		{
			name:      "ham",
			status:    http.StatusOK,
			body:      `{"results":[{"category":"ham","confidence":0.12}]}`,
			wantPhase: core.PhaseSucceeded,
			wantView:  &core.ResultViewModel{IsSpam: false, ConfidencePercent: "12.00", Label: "NOT SPAM"},
		},
		{
			name:      "structured failure",
			status:    http.StatusUnprocessableEntity,
			body:      `{"detail":"text field required"}`,
			wantPhase: core.PhaseFailed,
			wantError: "text field required",
		},
		{
			name:      "empty results",
			status:    http.StatusOK,
			body:      `{"results":[]}`,
			wantPhase: core.PhaseFailed,
			wantError: "No classification result returned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			controller := core.NewRequestController(newTestClient(server.URL), core.NewResultPresenter(), zap.NewNop())
			state, err := controller.Submit(context.Background(), "Win money now!!!")

			require.NoError(t, err)
			assert.Equal(t, tt.wantPhase, state.Phase)
			assert.Equal(t, tt.wantView, state.View)
			if tt.wantError != "" {
				require.NotNil(t, state.Error)
				assert.Equal(t, tt.wantError, state.Error.Message)
			}
			assert.False(t, controller.Busy())
		})
	}

	t.Run("server not running", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := server.URL
		server.Close()

		controller := core.NewRequestController(newTestClient(url), core.NewResultPresenter(), zap.NewNop())
		state, err := controller.Submit(context.Background(), "hello")

		require.NoError(t, err)
		assert.Equal(t, core.PhaseFailed, state.Phase)
		assert.Equal(t, "Unable to classify email. Ensure API server is running.", state.Error.Message)
	})
}
