// Package cli implements the vibeboxing command line client.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/spf13/cobra"

	"vibeboxing/internal/client"
	"vibeboxing/internal/logging"
)

// session is what every command runs against.
type session struct {
	cfg    *Config
	api    *client.API
	store  *client.AuthStore
	combos *client.ComboSync
}

type app struct {
	version string
	s       *session
}

// NewRootCmd creates the root command of the CLI.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	cmd := &cobra.Command{
		Use:   "vibeboxing",
		Short: "VibeBoxing - boxing combo training log",
		Long: `vibeboxing signs in to a VibeBoxing server and manages your
training combos from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.s != nil {
				a.s.combos.Close()
			}
		},
	}
	registerFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		a.newRegisterCmd(),
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newForgotPasswordCmd(),
		a.newProfileCmd(),
		a.newPasswordCmd(),
		a.newAccountCmd(),
		a.newCombosCmd(),
		a.newMovesCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if cfg.Verbose {
		logger = logging.Setup("vibeboxing-cli", a.version, "text", cmd.ErrOrStderr())
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	api, err := client.NewAPI(cfg.Server, client.WithHTTPClient(&http.Client{Jar: jar, Timeout: cfg.Timeout}))
	if err != nil {
		return err
	}
	store := client.NewAuthStore(api, client.NewFileCredentialStore(cfg.Cache), logger)
	a.s = &session{
		cfg:    cfg,
		api:    api,
		store:  store,
		combos: client.NewComboSync(api, store, logger),
	}
	return nil
}

// requireUser resolves the cached credentials and fails when nobody is signed in.
func (a *app) requireUser(ctx context.Context) (client.State, error) {
	if err := a.s.store.Init(ctx); err != nil {
		return client.State{}, err
	}
	st := a.s.store.State()
	if st.Status != client.StatusAuthenticated {
		return st, fmt.Errorf("%w: run 'vibeboxing login' first", client.ErrNotAuthenticated)
	}
	return st, nil
}
