package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/slipway-ci/slipway/pkg/domain/model"
	"github.com/slipway-ci/slipway/pkg/infra/notify"
)

func finishedRun(status model.RunStatus) *model.PipelineRun {
	run := model.NewPipelineRun("acme/widget", "2.0.3")
	idx := run.StartStep(model.StepBuild)
	if status == model.RunFailed {
		run.FinishStep(idx, io.ErrUnexpectedEOF)
		run.Finish(io.ErrUnexpectedEOF)
	} else {
		run.FinishStep(idx, nil)
		run.ReleaseURL = "https://github.com/acme/widget/releases/tag/2.0.3"
		run.Finish(nil)
	}
	run.FinishedAt = run.StartedAt.Add(3 * time.Minute)
	return run
}

func TestSlackNotifier_Notify(t *testing.T) {
	t.Run("successful run", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &received)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		notifier := notify.NewSlackNotifier(server.URL)
		gt.NoError(t, notifier.Notify(context.Background(), finishedRun(model.RunSucceeded)))

		attachments := gt.Cast[[]any](t, received["attachments"])
		gt.Number(t, len(attachments)).Equal(1)

		attachment := gt.Cast[map[string]any](t, attachments[0])
		gt.Value(t, attachment["color"]).Equal("good")
	})

	t.Run("failed run includes failed step", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &received)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		notifier := notify.NewSlackNotifier(server.URL)
		gt.NoError(t, notifier.Notify(context.Background(), finishedRun(model.RunFailed)))

		attachments := gt.Cast[[]any](t, received["attachments"])
		attachment := gt.Cast[map[string]any](t, attachments[0])
		gt.Value(t, attachment["color"]).Equal("danger")
	})

	t.Run("unreachable webhook", func(t *testing.T) {
		notifier := notify.NewSlackNotifier("http://127.0.0.1:1/webhook")
		gt.Error(t, notifier.Notify(context.Background(), finishedRun(model.RunSucceeded)))
	})
}
