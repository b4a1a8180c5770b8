//go:build integration
// +build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// composeFile is relative to this package directory, where go test runs.
var composeFile = getenv("E2E_COMPOSE_FILE", "../compose.yaml")

// restartMoviesContainer drops all in-memory state by restarting the movies
// service from compose.yaml.
func restartMoviesContainer(t *testing.T, ctx context.Context) {
	t.Helper()

	cmd := exec.CommandContext(ctx, "docker", "compose", "-f", composeFile, "restart", "movies")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart movies (%s) failed: %v\n%s", composeFile, err, string(out))
	}
}
