package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/malex-office/internal/cli"
)

func activityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent changes made from this console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			a, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.store.RecentActivity(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(cli.FormatInfo("No activity recorded yet")) //nolint:forbidigo // User-facing output
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.In(a.cfg.Location).Format("2006-01-02 15:04"),
					e.User,
					e.Action,
					e.Subject,
					e.SubjectID,
					e.Detail,
				})
			}
			fmt.Println(cli.RenderTable([]string{"When", "User", "Action", "Subject", "ID", "Detail"}, rows)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "number of entries")

	return cmd
}
