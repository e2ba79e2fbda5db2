package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/slipway-ci/slipway/pkg/domain/interfaces"
)

//go:embed prompts/release_notes_system.md
var notesSystemPrompt string

//go:embed prompts/release_notes_user.md
var notesUserTemplate string

// commitHistoryLimit caps the commit messages fed to the model.
const commitHistoryLimit = 30

type notesGenerator struct {
	llmClient    gollem.LLMClient
	publisher    interfaces.ReleasePublisher
	userTemplate *template.Template
}

// NewNotesGenerator creates a release notes generator that summarizes the
// tag's recent commit history with an LLM.
func NewNotesGenerator(llmClient gollem.LLMClient, publisher interfaces.ReleasePublisher) (interfaces.NotesGenerator, error) {
	tmpl, err := template.New("user").Parse(notesUserTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse release notes user template")
	}

	return &notesGenerator{
		llmClient:    llmClient,
		publisher:    publisher,
		userTemplate: tmpl,
	}, nil
}

// Generate produces a markdown release body for the tag.
func (g *notesGenerator) Generate(ctx context.Context, owner, repo, tag string) (string, error) {
	logger := ctxlog.From(ctx)

	messages, err := g.publisher.ListCommitMessages(ctx, owner, repo, tag, commitHistoryLimit)
	if err != nil {
		return "", goerr.Wrap(err, "failed to collect commit history for release notes")
	}

	var buf bytes.Buffer
	if err := g.userTemplate.Execute(&buf, map[string]any{
		"Tag":     tag,
		"Commits": messages,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render release notes prompt")
	}

	logger.Debug("Generating release notes",
		"tag", tag,
		"commit_count", len(messages),
	)

	session, err := g.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(notesSystemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate release notes")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("no response from LLM")
	}

	return strings.TrimSpace(resp.Texts[0]), nil
}
