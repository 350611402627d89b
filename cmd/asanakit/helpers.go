package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/asanakit/asanakit/internal/config"
	"github.com/asanakit/asanakit/internal/snapshot"
	"github.com/asanakit/asanakit/pkg/asana"
	"github.com/asanakit/asanakit/pkg/asana/models"
)

var errNoToken = errors.New("no Asana token configured: pass --token, set " +
	config.EnvToken + " or add [auth] token to ~/.asanakit/config.toml")

// resolveConfig is swapped out in tests.
var resolveConfig = config.ResolveConfig

// getClient creates an SDK client from the resolved config
func getClient() (*asana.Client, *config.ResolvedConfig, error) {
	cfg, err := resolveConfig(config.Overrides{
		Token:   tokenFlag,
		BaseURL: baseURLFlag,
		Timeout: timeoutFlag,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.Token == "" {
		return nil, nil, errNoToken
	}

	client, err := asana.NewClient(
		asana.WithToken(cfg.Token),
		asana.WithBaseURL(cfg.BaseURL),
		asana.WithTimeout(cfg.Timeout),
		asana.WithUserAgent(cfg.UserAgent),
		asana.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// lookupKind resolves a kind name such as "task" or "projects".
func lookupKind(kind string) (asana.Descriptor, error) {
	d, ok := models.Lookup(kind)
	if !ok {
		return asana.Descriptor{}, fmt.Errorf("unknown kind %q (known: %s)", kind, strings.Join(models.Kinds(), ", "))
	}
	return d, nil
}

// parseScope turns a "kind:gid" flag value into a parent scope. An empty
// value scopes to the client itself.
func parseScope(client *asana.Client, from string) (asana.Scope, string, error) {
	if from == "" {
		return client, "", nil
	}

	kind, gid, ok := strings.Cut(from, ":")
	if !ok || strings.TrimSpace(gid) == "" {
		return nil, "", fmt.Errorf("invalid --from %q: expected kind:gid", from)
	}

	parent, err := lookupKind(kind)
	if err != nil {
		return nil, "", err
	}

	q := asana.FromResource(client, parent.Resource(), strings.TrimSpace(gid))
	return q, q.Parent(), nil
}

// listDefaults fills in what a bare listing needs from the config: tasks
// and sections live under the configured project, while other top-level
// collections are filtered by workspace.
func listDefaults(cfg *config.ResolvedConfig, d asana.Descriptor, from string) (string, []asana.RequestOption) {
	if from != "" {
		return from, nil
	}

	switch d.Resource() {
	case "tasks", "sections":
		if cfg.Project != "" {
			return "projects:" + cfg.Project, nil
		}
	case "projects", "tags", "users":
		if cfg.Workspace != "" {
			return "", []asana.RequestOption{asana.WithParam("workspace", cfg.Workspace)}
		}
	}
	return "", nil
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case asana.IsUnreachable(err):
		return ExitUnreachable
	case errors.Is(err, errNoToken):
		return ExitNotConfigured
	case asana.IsNotFound(err), errors.Is(err, snapshot.ErrNotFound):
		return ExitNotFound
	case asana.IsUnauthorized(err), asana.IsForbidden(err), asana.IsPaymentRequired(err):
		return ExitPermissionDenied
	case asana.IsRateLimited(err):
		return ExitRateLimited
	default:
		return ExitGeneralError
	}
}

// handleError prints the error and exits with the matching code
func handleError(err error) {
	if err == nil {
		return
	}

	printError(os.Stderr, err, jsonOutput)
	logger.Sync()
	os.Exit(mapErrorToExitCode(err))
}
