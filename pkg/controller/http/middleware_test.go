package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"

	controller "github.com/slipway-ci/slipway/pkg/controller/http"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	handler := controller.LoggingMiddleware(ctx)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("logs webhook delivery ID", func(t *testing.T) {
		buf.Reset()

		req := httptest.NewRequest(http.MethodPost, "/hooks/github", nil)
		req.Header.Set("X-GitHub-Delivery", "delivery-42")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		gt.Number(t, w.Code).Equal(http.StatusNoContent)
		gt.True(t, strings.Contains(buf.String(), "delivery-42"))
	})

	t.Run("requests without delivery ID", func(t *testing.T) {
		buf.Reset()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		gt.Number(t, w.Code).Equal(http.StatusNoContent)
		gt.False(t, strings.Contains(buf.String(), "delivery_id"))
	})
}
