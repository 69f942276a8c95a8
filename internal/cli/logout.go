package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/placer/pkg/config"
	"github.com/matzehuels/placer/pkg/session"
)

// logoutCommand forgets a remembered session.
func (c *CLI) logoutCommand() *cobra.Command {
	var (
		configPath string
		storeSpec  string
	)

	cmd := &cobra.Command{
		Use:   "logout <username>",
		Short: "Forget the remembered session for an account",
		Long: `Remove the session saved by --remember, so the next run logs in with the
password again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("session-store") {
				cfg.SessionStore = storeSpec
			}

			store, err := session.Open(ctx, cfg.SessionStore)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			if err := store.Cleanup(ctx); err != nil {
				c.Logger.Debugf("Session cleanup: %v", err)
			}
			printSuccess(c.Out, "Logged out %s", args[0])
			if fs, ok := store.(*session.FileStore); ok {
				printDetail(c.Out, "Sessions: %s", fs.Path())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&storeSpec, "session-store", "", "session store: file, file:<dir> or redis://host:port")
	return cmd
}
