package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"go-etl-pipeline/internal/dag"
	"go-etl-pipeline/internal/pipeline"
	"go-etl-pipeline/internal/store"
)

func init() {
	dagCmd.AddCommand(dagRunCmd, dagTriggerCmd, dagListCmd)
	rootCmd.AddCommand(dagCmd)
}

// builtinDAGs returns every DAG the CLI knows about
func builtinDAGs(st pipeline.RunStore) []*dag.DAG {
	return []*dag.DAG{
		dag.GreetingDAG(os.Stdout, time.Now),
		dag.PostsDAG(newRunner(st)),
	}
}

var dagCmd = &cobra.Command{
	Use:   "dag",
	Short: "Run the daily DAGs.",
}

var dagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in DAGs.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, d := range builtinDAGs(nil) {
			fmt.Printf("%s\t%s\t%s\n", d.ID, d.Schedule, d.Description)
		}
	},
}

var dagTriggerCmd = &cobra.Command{
	Use:   "trigger <dag-id>",
	Short: "Run one DAG immediately, once.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, d := range builtinDAGs(nil) {
			if d.ID == args[0] {
				return d.Trigger(cmd.Context())
			}
		}
		return fmt.Errorf("unknown dag %q", args[0])
	},
}

var dagRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the scheduler and run every DAG on its schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		s := dag.NewScheduler(logger)
		for _, d := range builtinDAGs(db) {
			if err := s.Register(d); err != nil {
				return err
			}
		}
		return s.Start(cmd.Context())
	},
}
