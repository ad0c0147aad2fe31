package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/typedflow/api"
	"github.com/kbukum/typedflow/bootstrap"
	"github.com/kbukum/typedflow/observability"
	"github.com/kbukum/typedflow/pipeline"
	"github.com/kbukum/typedflow/server"
	"github.com/kbukum/typedflow/server/endpoint"
	"github.com/kbukum/typedflow/version"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Start the HTTP API with the configured store backend and pipelines.
The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags.configFile)
			if err != nil {
				return err
			}
			app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			if err := setupService(app); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

// setupService registers telemetry, the store backend and, once those are
// up, the HTTP server with every route mounted.
func setupService(app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	build := version.Get().Short()

	telemetry := observability.NewComponent(cfg.Telemetry, cfg.Name, build, cfg.Environment, app.Logger)
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}
	openStores, err := registerBackend(app)
	if err != nil {
		return err
	}

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*AppConfig]) error {
		st, err := openStores()
		if err != nil {
			return err
		}
		metrics, err := observability.NewMetrics(observability.Meter())
		if err != nil {
			return err
		}
		ch, err := buildChains(cfg.Pipeline, pipeline.WithLogger(a.Logger), pipeline.WithMetrics(metrics))
		if err != nil {
			return err
		}

		srv := server.New(cfg.Server, a.Logger)
		srv.ApplyMiddleware(metrics)
		endpoint.Register(srv.Engine(), cfg.Name, build, a.Components)
		api.Register(srv.Engine(), api.Routes{
			Texts:           st.texts,
			Numbers:         st.numbers,
			Text:            ch.text,
			Numeric:         ch.numeric,
			PipelineOptions: []api.PipelineOption{api.WithMaxInputs(cfg.Pipeline.MaxInputs)},
		})

		a.Summary.TrackPipeline("text: " + ch.text.Name())
		a.Summary.TrackPipeline("numeric: " + ch.numeric.Name())
		for _, r := range srv.Routes() {
			a.Summary.TrackRoute(r.Method, r.Path)
		}
		return a.RegisterComponent(server.NewComponent(srv))
	})
	return nil
}
