package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/wmsclient/internal/client/services"
	"github.com/spf13/cobra"
)

func (a *App) uploadCommand() *cobra.Command {
	var (
		name     string
		mimeType string
		data     string
	)
	cmd := &cobra.Command{
		Use:   "upload [path]",
		Short: "Upload a file, keeping it locally when the backend is unreachable",
		Long: "Uploads the file at path, or the --data string (a data URL or base64).\n" +
			"On failure the content is stored in the local uploads map and its\n" +
			"data URL is printed as file_url.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in services.FileInput
			switch {
			case len(args) == 1 && data != "":
				return errors.New("give either a path or --data, not both")
			case len(args) == 1:
				b, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				in = services.BytesInput(b)
				if name == "" {
					name = filepath.Base(args[0])
				}
			case data != "":
				in = services.StringInput(data)
			default:
				return errors.New("nothing to upload: give a path or --data")
			}

			res, err := a.session.Files.Upload(cmd.Context(), in, name, mimeType)
			if err != nil {
				return err
			}
			if res.StoredLocally {
				a.notef("backend unavailable, file kept locally as %s", res.FileID)
			}
			return a.printJSON(res)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "file name sent to the backend")
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type, detected from a data URL when omitted")
	cmd.Flags().StringVar(&data, "data", "", "file content as a data URL or base64 string")
	return cmd
}

func (a *App) pendingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pending [upload-id]",
		Short: "Show files kept locally after failed uploads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.printJSON(a.session.Uploads.All(cmd.Context()))
			}
			u, ok := a.session.Files.Local(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no local upload %q", args[0])
			}
			return a.printJSON(u)
		},
	}
}
