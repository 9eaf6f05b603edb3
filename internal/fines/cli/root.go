// Package cli implements finectl, a terminal client for the fines API.
//
// The signed in user is kept in a state.Store persisted under the state
// directory, so a login survives between invocations. The bearer token is
// stored next to it under its own key.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/finepay/internal/fines/state"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"github.com/spf13/cobra"
)

const (
	defaultAPI = "http://localhost:8080"
	envAPI     = "FINECTL_API"
	envState   = "FINECTL_STATE_DIR"
)

type options struct {
	api      string
	stateDir string
	verbose  bool
}

// env is built once per invocation, before any subcommand runs.
type env struct {
	out     io.Writer
	logger  *slog.Logger
	client  *finesdk.Client
	storage state.Storage
	state   *state.Store
}

// NewRootCmd returns the finectl command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}
	e := &env{}

	root := &cobra.Command{
		Use:   "finectl",
		Short: "finectl - search and pay South African traffic fines",
		Long: `finectl talks to the fines API to search traffic fines, manage your
driver profile and vehicles, and start payments.

Sign in once with "finectl login"; the session is remembered until "finectl logout".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.api, "api", getEnvOrDefault(envAPI, defaultAPI), "Fines API base URL")
	root.PersistentFlags().StringVar(&opts.stateDir, "state-dir", os.Getenv(envState), "Directory for the saved session (default: user config dir)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	root.AddCommand(
		newSearchCmd(e),
		newFineCmd(e),
		newMunicipalitiesCmd(e),
		newValidateCmd(),
		newRegisterCmd(e),
		newLoginCmd(e),
		newLogoutCmd(e),
		newWhoamiCmd(e),
		newMyFinesCmd(e),
		newDashboardCmd(e),
		newVehiclesCmd(e),
		newPaymentsCmd(e),
		newPayCmd(e),
	)

	return root
}

// Execute runs finectl with os.Args.
func Execute(version string) error {
	root := NewRootCmd(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (e *env) init(cmd *cobra.Command, opts *options) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	e.out = cmd.OutOrStdout()
	e.logger = slogx.New(slogx.Config{
		Service: "finectl",
		Version: cmd.Root().Version,
		Level:   level,
		Format:  "text",
		Output:  cmd.ErrOrStderr(),
	})
	e.client = finesdk.NewClient(opts.api)

	dir := opts.stateDir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(base, "finectl")
	}
	e.storage = state.NewFileStorage(dir)
	e.state = state.NewStore(e.storage, e.logger)

	// Malformed storage is logged and treated as signed out.
	return e.state.Hydrate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
