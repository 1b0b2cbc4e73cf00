package commands

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-etl-pipeline/internal/api"
	"go-etl-pipeline/internal/api/handler"
	"go-etl-pipeline/internal/dag"
	"go-etl-pipeline/internal/pipeline"
	"go-etl-pipeline/internal/store"
	"go-etl-pipeline/pkg/router"
	"go-etl-pipeline/pkg/utils"
)

var (
	serveAddr      string
	serveScheduler bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config).")
	serveCmd.Flags().BoolVar(&serveScheduler, "with-scheduler", false, "Also run the daily DAGs in this process.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--addr :8080]",
	Short: "Serve the runs API (and Swagger UI under /swagger/).",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.ListenAddr = serveAddr
		}

		db, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		outputs := utils.NewOutputManager(cfg.OutputDir)
		h := handler.New(db, pipeline.NewHTTPFetcher(cfg.Timeout(), logger), outputs, handler.Config{
			SourceURL: cfg.SourceURL,
			FileName:  cfg.OutputFile,
			UserID:    cfg.FilterUserID,
		}, logger)
		defer h.Shutdown()

		r := router.New(logger)
		api.RegisterRoutes(r, h)

		var s *dag.Scheduler
		if serveScheduler {
			s = dag.NewScheduler(logger)
			for _, d := range builtinDAGs(db) {
				if err := s.Register(d); err != nil {
					return err
				}
			}
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			return r.Start(ctx, cfg.ListenAddr)
		})
		if s != nil {
			g.Go(func() error {
				return s.Start(ctx)
			})
		}

		return g.Wait()
	},
}
