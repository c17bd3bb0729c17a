package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/wmsclient/internal/client/match"
	"github.com/dmitrijs2005/wmsclient/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) listCommand() *cobra.Command {
	var (
		orderBy string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "List records of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records := a.session.Entity(args[0]).List(cmd.Context(), orderBy, limit)
			return a.printJSON(records)
		},
	}
	cmd.Flags().StringVarP(&orderBy, "sort", "s", "", `sort field, "-field" for descending`)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of records, 0 for all")
	return cmd
}

func (a *App) filterCommand() *cobra.Command {
	var (
		orderBy string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "filter <entity> field=value...",
		Short: "List records matching every field condition",
		Long: "Each condition is field=value. A JSON array value, e.g. zone='[\"A\",\"B\"]',\n" +
			"matches any of its elements.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := ParseAssignments(args[1:])
			if err != nil {
				return err
			}
			p := match.ParsePredicate(rec)
			records := a.session.Entity(args[0]).Filter(cmd.Context(), p, orderBy)
			return a.printJSON(match.Limit(records, limit))
		},
	}
	cmd.Flags().StringVarP(&orderBy, "sort", "s", "", `sort field, "-field" for descending`)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of records, 0 for all")
	return cmd
}

func (a *App) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.session.Entity(args[0]).Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return a.printJSON(rec)
		},
	}
}

// recordInput builds the request body from --json, field=value arguments
// or, when neither is given, an interactive prompt.
func (a *App) recordInput(cmd *cobra.Command, raw string, pairs []string) (models.Record, error) {
	if raw != "" {
		var rec models.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("invalid --json: %w", err)
		}
		return rec, nil
	}
	if len(pairs) > 0 {
		return ParseAssignments(pairs)
	}
	return GetFields(a.in, cmd.ErrOrStderr())
}

func (a *App) createCommand() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "create <entity> [field=value...]",
		Short: "Create a record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.recordInput(cmd, raw, args[1:])
			if err != nil {
				return err
			}
			rec := a.session.Entity(args[0]).Create(cmd.Context(), data)
			if models.IsTempID(rec.ID()) {
				a.notef("backend unavailable, record kept locally as %s", rec.ID())
			}
			return a.printJSON(rec)
		},
	}
	cmd.Flags().StringVar(&raw, "json", "", "record as a JSON object")
	return cmd
}

func (a *App) updateCommand() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "update <entity> <id> [field=value...]",
		Short: "Update a record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.recordInput(cmd, raw, args[2:])
			if err != nil {
				return err
			}
			return a.printJSON(a.session.Entity(args[0]).Update(cmd.Context(), args[1], data))
		},
	}
	cmd.Flags().StringVar(&raw, "json", "", "changes as a JSON object")
	return cmd
}

func (a *App) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printJSON(a.session.Entity(args[0]).Delete(cmd.Context(), args[1]))
		},
	}
}
