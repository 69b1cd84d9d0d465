package main

import (
	"go.uber.org/fx"

	"github.com/sboussekeyt/spring-batch-rs/engine"
	"github.com/sboussekeyt/spring-batch-rs/example/csvimport/internal/job"
	"github.com/sboussekeyt/spring-batch-rs/internal/config"
	"github.com/sboussekeyt/spring-batch-rs/internal/logging"
	"github.com/sboussekeyt/spring-batch-rs/metrics"
)

// applicationOptions builds the fx.Option slice wiring this example's
// dependency graph: configuration, metrics/tracing no-ops, the job itself,
// and the lifecycle hook that launches it on startup.
func applicationOptions(envFilePath string, embeddedConfig, embeddedCSV []byte) []fx.Option {
	cfg, err := config.Load(envFilePath, embeddedConfig)
	if err != nil {
		logging.Fatalf("failed to load configuration: %v", err)
	}

	return []fx.Option{
		fx.Supply(cfg),
		fx.Supply(fx.Annotate(embeddedCSV, fx.ResultTags(`name:"inputCSV"`))),
		fx.Provide(func() metrics.Recorder { return metrics.NewNoOpRecorder() }),
		fx.Provide(func() metrics.Tracer { return metrics.NewNoOpTracer() }),
		fx.Provide(fx.Annotate(newJob, fx.ParamTags("", `name:"inputCSV"`, "", ""))),
		fx.Invoke(runJob),
	}
}

func newJob(cfg *config.Config, inputCSV []byte, recorder metrics.Recorder, tracer metrics.Tracer) (*engine.Job, error) {
	return job.New(job.Params{
		Config:   cfg,
		InputCSV: inputCSV,
		Recorder: recorder,
		Tracer:   tracer,
	})
}
