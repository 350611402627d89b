package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/asanakit/asanakit/internal/api"
	"github.com/asanakit/asanakit/internal/api/fixture"
	"github.com/asanakit/asanakit/internal/server"
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve fixtures through a fake Asana API",
	Long: `Serve a fixture file through a fake, read-only Asana API for local
development. Fixture keys are API paths without the version prefix, for
example "users/me" or "projects/1/sections".

Point the CLI at it with --base-url http://localhost:7433/api/1.0.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fixturesPath, _ := cmd.Flags().GetString("fixtures")
		addr, _ := cmd.Flags().GetString("addr")
		token, _ := cmd.Flags().GetString("require-token")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := runMockServer(ctx, cmd.OutOrStdout(), fixturesPath, addr, token); err != nil {
			handleError(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mockServerCmd)

	mockServerCmd.Flags().String("fixtures", "", "Fixture JSON file")
	mockServerCmd.Flags().String("addr", server.DefaultAddress, "Address to bind the server to")
	mockServerCmd.Flags().String("require-token", "", "Only accept this bearer token")
	mockServerCmd.MarkFlagRequired("fixtures")
}

// runMockServer serves the fixtures until ctx is done, then shuts down
// gracefully.
func runMockServer(ctx context.Context, w io.Writer, fixturesPath, addr, token string) error {
	fixtures, err := fixture.Load(fixturesPath)
	if err != nil {
		return err
	}

	logger.Info("loaded fixtures", zap.String("file", fixturesPath), zap.Strings("paths", fixtures.Paths()))

	router := api.NewRouter(fixtures, api.WithToken(token), api.WithLogger(logger))
	srv := server.New(addr, router, logger)
	if err := srv.Listen(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	printSuccess(w, fmt.Sprintf("Serving %d fixtures on http://%s%s", len(fixtures), srv.Addr(), api.BasePath), jsonOutput)

	return srv.Run(ctx)
}
