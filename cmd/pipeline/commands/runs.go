package commands

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"go-etl-pipeline/internal/store"
)

func init() {
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Prints the runs recorded in the run history database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Run", "Status", "Fetched", "Kept", "Written", "Created", "Error"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.ID, r.Status, r.Fetched, r.Kept, r.Written,
				r.CreatedAt.Local().Format(time.DateTime), r.Error,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
