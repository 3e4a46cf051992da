package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the vaultctl command tree around a.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "vaultctl",
		Short: "vaultctl - command-line client for a DataVault server",
		Long: `vaultctl stores and retrieves encrypted personal data on a DataVault server.

Log in once with 'vaultctl login'; the session is kept in the user config
directory and refreshed automatically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to a JSON config file")
	pf.StringVarP(&a.overrides.ServerURL, "server", "a", "", "DataVault server URL")
	pf.StringVarP(&a.overrides.SessionFile, "session", "s", "", "path to the session file")
	pf.DurationVar(&a.overrides.Timeout, "timeout", 0, "HTTP request timeout")
	pf.StringVar(&a.overrides.GRPCAddr, "grpc", "", "host:port of the gRPC health service")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log HTTP traffic to stderr")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newCategoriesCmd(a),
		newRecordsCmd(a),
		newSearchCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newStatusCmd(a),
	)
	return root
}

// Execute runs vaultctl with args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	a := NewApp(in, out, errOut)
	root := NewRootCommand(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		printError(errOut, err)
		return 1
	}
	return 0
}
