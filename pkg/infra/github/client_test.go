package github_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/slipway-ci/slipway/pkg/domain/model"
	githubinfra "github.com/slipway-ci/slipway/pkg/infra/github"
)

func TestNewTokenClient(t *testing.T) {
	client := githubinfra.NewTokenClient("test-token")
	gt.Value(t, client).NotNil()
}

func TestNewAppClient(t *testing.T) {
	// This test requires GitHub App credentials from environment variables
	appID := os.Getenv("TEST_GITHUB_APP_ID")
	installationID := os.Getenv("TEST_GITHUB_INSTALLATION_ID")
	privateKey := os.Getenv("TEST_GITHUB_PRIVATE_KEY")

	if appID == "" || installationID == "" || privateKey == "" {
		t.Skip("Test GitHub App credentials not provided via environment variables")
	}

	appIDInt, err := strconv.ParseInt(appID, 10, 64)
	gt.NoError(t, err)

	installationIDInt, err := strconv.ParseInt(installationID, 10, 64)
	gt.NoError(t, err)

	client, err := githubinfra.NewAppClient(appIDInt, installationIDInt, []byte(privateKey))
	gt.NoError(t, err)
	gt.Value(t, client).NotNil()
}

func TestClient_UploadAsset_MissingFile(t *testing.T) {
	ctx := context.Background()
	client := githubinfra.NewTokenClient("test-token")

	// A missing artifact file fails before any API call and without
	// exhausting the retry budget.
	_, err := client.UploadAsset(ctx, "acme", "widget", 1, model.Artifact{
		Kind: model.ArtifactDMG,
		Name: "Widget_2.0.3.dmg",
		Path: "/nonexistent/Widget_2.0.3.dmg",
	})
	gt.Error(t, err)
}
