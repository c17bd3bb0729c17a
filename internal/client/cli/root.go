package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Warehouse entity client with offline fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.opts.configFile, "config", "c", "", "path to a TOML config file")
	pf.StringVar(&a.opts.envFile, "env-file", ".env", "dotenv file loaded before reading WMS_* variables")
	pf.StringVar(&a.opts.apiURL, "api-url", "", "backend base URL (/api is appended when missing)")
	pf.StringVar(&a.opts.store, "store", "", "local store: sqlite, redis, memory or none")
	pf.StringVar(&a.opts.storePath, "store-path", "", "sqlite database file")
	pf.StringVar(&a.opts.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.opts.logFormat, "log-format", "", "text or json")
	pf.DurationVar(&a.opts.timeout, "timeout", 0, "per-request timeout, 0 disables it")

	root.AddCommand(
		a.listCommand(),
		a.filterCommand(),
		a.getCommand(),
		a.createCommand(),
		a.updateCommand(),
		a.deleteCommand(),
		a.uploadCommand(),
		a.pendingCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.profileCommand(),
		a.resetPasswordCommand(),
		a.statusCommand(),
		a.backupCommand(),
		a.restoreCommand(),
	)
	return root
}
