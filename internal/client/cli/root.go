package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/sportconnect/internal/client/config"
	"github.com/iudanet/sportconnect/internal/client/iocli"
)

// BuildInfo is set via ldflags in main.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

type runFunc func(cmd *cobra.Command, args []string, c *Cli) error

// NewRootCmd builds the scgn command tree. Configuration is read and the local
// database opened before any subcommand runs; it is closed when the command returns.
func NewRootCmd(build BuildInfo) *cobra.Command {
	v := viper.New()
	var app *App

	// run закрывает приложение после команды, даже если она вернула ошибку
	run := func(fn runFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := app.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return fn(cmd, args, app.Cli)
		}
	}

	rootCmd := &cobra.Command{
		Use:           "scgn",
		Short:         "SportConnect GN command-line client",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", build.Version, build.BuildDate, build.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			slog.SetDefault(logger)

			app, err = Open(cmd.Context(), cfg, newIO(cmd), logger)
			return err
		},
	}
	config.RegisterFlags(rootCmd.PersistentFlags(), v)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "register",
			Short: "Create an account and log in",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runRegister(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "login [username]",
			Short: "Log in with username and password",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runLogin(cmd.Context(), optionalArg(args))
			}),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the local session (no network call)",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runLogout()
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show session status",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runStatus(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "me",
			Short: "Show your profile",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runMe(cmd.Context())
			}),
		},
		newProfileCmd(run),
		newDeleteAccountCmd(run),
		&cobra.Command{
			Use:       "theme [auto|light|dark|toggle]",
			Short:     "Show or change the display theme",
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: []string{"auto", "light", "dark", "toggle"},
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runTheme(cmd.Context(), optionalArg(args))
			}),
		},
		&cobra.Command{
			Use:   "get <path>",
			Short: "Perform an authenticated GET on an API path",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runGet(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "shell",
			Short: "Interactive shell; the session closes after inactivity",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
				return c.runShell(cmd.Context())
			}),
		},
	)

	return rootCmd
}

func newProfileCmd(run func(runFunc) func(*cobra.Command, []string) error) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			values := make(map[string]string)
			for _, field := range ProfileFieldNames() {
				if flag := cmd.Flags().Lookup(flagName(field)); flag != nil && flag.Changed {
					values[field] = flag.Value.String()
				}
			}
			return c.runProfileUpdate(cmd.Context(), values)
		}),
	}
	for _, field := range ProfileFieldNames() {
		updateCmd.Flags().String(flagName(field), "", "New "+strings.ReplaceAll(field, "_", " "))
	}

	profileCmd.AddCommand(updateCmd)
	return profileCmd
}

func newDeleteAccountCmd(run func(runFunc) func(*cobra.Command, []string) error) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete your account",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, args []string, c *Cli) error {
			return c.runDeleteAccount(cmd.Context(), yes)
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// newIO uses the real terminal when the command reads os.Stdin, so passwords are not echoed.
func newIO(cmd *cobra.Command) iocli.IO {
	if cmd.InOrStdin() == os.Stdin && cmd.OutOrStdout() == os.Stdout {
		return iocli.NewStdio()
	}
	return iocli.NewStream(cmd.InOrStdin(), cmd.OutOrStdout())
}

// NewLogger builds the text logger used by the CLI.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
