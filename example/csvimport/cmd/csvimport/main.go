// Command csvimport demonstrates the engine end to end: it reads a small
// embedded CSV file of products and loads it into a SQLite database through
// a single chunk step, wiring the whole dependency graph with fx.
package main

import (
	"context"
	_ "embed"
	"os"

	"go.uber.org/fx"

	"github.com/sboussekeyt/spring-batch-rs/engine"
	"github.com/sboussekeyt/spring-batch-rs/internal/logging"
)

//go:embed resources/application.yaml
var embeddedConfig []byte

//go:embed resources/products.csv
var embeddedCSV []byte

// runJob is the fx lifecycle hook that launches the job on application
// start and requests shutdown once it finishes, mirroring the polling/
// shutdown pattern of a long-lived job launcher without the network round
// trips a real job repository would add.
func runJob(lc fx.Lifecycle, shutdowner fx.Shutdowner, j *engine.Job) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if r := recover(); r != nil {
						logging.Errorf("panic recovered during job execution: %v", r)
					}
					if err := shutdowner.Shutdown(); err != nil {
						logging.Errorf("failed to shut down application: %v", err)
					}
				}()

				je := j.Run(context.Background())
				logging.Infof("job %q finished with status %s", je.JobName, je.Status)
				for _, se := range je.StepExecutions {
					logging.Infof("  step %q: status=%s read=%d write=%d skips(read=%d process=%d write=%d)",
						se.Name, se.Status, se.ReadCount, se.WriteCount, se.ReadSkipCount, se.ProcessSkipCount, se.WriteSkipCount)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logging.Infof("application shutting down")
			return nil
		},
	})
}

func main() {
	envFilePath := os.Getenv("ENV_FILE_PATH")

	app := fx.New(applicationOptions(envFilePath, embeddedConfig, embeddedCSV)...)
	app.Run()
	if err := app.Err(); err != nil {
		logging.Fatalf("application run failed: %v", err)
	}
	os.Exit(0)
}
