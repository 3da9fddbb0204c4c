package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/passy1977/pocket-web-backend/internal/buildinfo"
	"github.com/passy1977/pocket-web-backend/internal/client/config"
	"github.com/passy1977/pocket-web-backend/internal/logging"
	"github.com/spf13/cobra"
)

// runner is the part of App the cobra commands drive.
type runner interface {
	Run(ctx context.Context)
	Login(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Close(ctx context.Context)
}

// newApp is a test seam around NewApp.
var newApp = func(ctx context.Context, cfg *config.Config, logger logging.Logger) (runner, error) {
	return NewApp(ctx, cfg, logger)
}

// configFlags are the persistent flags forwarded to config.LoadConfig.
var configFlags = []string{"config", "addr", "dsn", "timeout", "connect-timeout"}

// NewRootCmd builds the pocket command tree. Without a subcommand it starts
// the interactive shell.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pocket",
		Short: "pocket - a password vault client",
		Long: `pocket keeps a local copy of your password vault and pushes every
change to the pocket server.

Run it without arguments to open the interactive shell, then type 'help'.

Environment:
` + config.EnvUsage(),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
			return withApp(cmd, func(ctx context.Context, app runner) error {
				app.Run(ctx)
				return nil
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to a JSON config file")
	pf.StringP("addr", "a", "", "address and port of the pocket server")
	pf.StringP("dsn", "d", "", "local database DSN")
	pf.StringP("timeout", "t", "", "push timeout, e.g. 10s")
	pf.StringP("connect-timeout", "T", "", "connect timeout, e.g. 3s")

	root.AddCommand(newVersionCmd(), newExportCmd(), newImportCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Log in and export the vault to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app runner) error {
				if err := app.Login(ctx); err != nil {
					return err
				}
				return app.Export(ctx, args)
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Log in and replace the vault with an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app runner) error {
				if err := app.Login(ctx); err != nil {
					return err
				}
				return app.Import(ctx, args)
			})
		},
	}
}

// configArgs turns the flags set on the command line into the argument
// form config.LoadConfig understands.
func configArgs(cmd *cobra.Command) []string {
	var args []string
	for _, name := range configFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		args = append(args, fmt.Sprintf("--%s=%s", name, cmd.Flags().Lookup(name).Value.String()))
	}
	return args
}

func withApp(cmd *cobra.Command, fn func(ctx context.Context, app runner) error) error {
	cfg, err := config.LoadConfig(configArgs(cmd))
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close(ctx)
	return fn(ctx, app)
}
