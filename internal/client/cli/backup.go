package cli

import (
	"github.com/dmitrijs2005/wmsclient/internal/client/backup"
	"github.com/spf13/cobra"
)

func (a *App) backupService(cmd *cobra.Command) (*backup.Service, error) {
	api, err := a.newObjectAPI(cmd.Context(), a.cfg.Backup)
	if err != nil {
		return nil, err
	}
	return backup.NewService(api, a.cfg.Backup, a.session.Store, a.log, a.session.Mirror, a.session.Uploads), nil
}

func (a *App) backupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the local mirror, pending uploads and profile to the backup bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.backupService(cmd)
			if err != nil {
				return err
			}
			name, err := svc.Backup(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(map[string]string{"name": name, "bucket": a.cfg.Backup.Bucket})
		},
	}
}

func (a *App) restoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [name]",
		Short: "Replace the local state with a snapshot (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.backupService(cmd)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			snap, err := svc.Restore(cmd.Context(), name)
			if err != nil {
				return err
			}
			a.notef("Restored %d keys from snapshot taken %s", len(snap.Values), snap.CreatedAt.Format("2006-01-02 15:04:05Z07:00"))
			return nil
		},
	}
}
