package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-etl-pipeline/internal/sqlpractice"
)

var sqlQueryName string

func init() {
	sqlCmd.Flags().StringVarP(&sqlQueryName, "query", "q", "", "Run only this query (engineering_cte, department_rank, top_paid_per_department).")
	rootCmd.AddCommand(sqlCmd)
}

var sqlCmd = &cobra.Command{
	Use:   "sql [-q <name>]",
	Short: "Run the CTE and window-function practice queries against an in-memory employees table.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := sqlpractice.Open(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		if sqlQueryName == "" {
			return p.RunAll(ctx, os.Stdout)
		}

		q, ok := sqlpractice.Lookup(sqlQueryName)
		if !ok {
			return fmt.Errorf("unknown query %q", sqlQueryName)
		}
		res, err := p.Run(ctx, q)
		if err != nil {
			return err
		}
		sqlpractice.Render(os.Stdout, q, res)
		return nil
	},
}
