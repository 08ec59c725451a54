package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/skinfolio"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultSchedule fetches prices every day at midnight UTC.
const DefaultSchedule = "CRON_TZ=UTC 0 0 * * *"

type watchCmd struct {
	schedule string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "fetch prices on a schedule until interrupted" }
func (*watchCmd) Usage() string {
	return `skinfolio watch [-schedule <cron>]

  Runs fetch on a cron schedule until interrupted. A run still in progress
  when the next one is due makes the next one skipped.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", DefaultSchedule, "Cron expression (minute hour day month weekday)")
}

// cronLogger sends the scheduler logs to the global logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// fetchJob returns the scheduled job, logging the outcome of every run.
func fetchJob(ctx context.Context, session *skinfolio.Session) func() {
	return func() {
		report, err := session.Fetch(ctx)
		if err != nil {
			log.Error().Err(err).Msg("scheduled fetch failed")
			return
		}
		log.Info().
			Time("timestamp", report.Timestamp).
			Int("recorded", len(report.Observations)).
			Int("skipped", len(report.Skipped)).
			Int("failed", len(report.Failed)).
			Msg("scheduled fetch done")
	}
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := openWorkspace()
	if err != nil {
		return failf("%v", err)
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})), cron.WithLogger(cronLogger{}))
	if _, err := scheduler.AddFunc(c.schedule, fetchJob(ctx, ws.session)); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing schedule %q: %v\n", c.schedule, err)
		return subcommands.ExitUsageError
	}

	scheduler.Start()
	fmt.Fprintf(os.Stderr, "Fetching prices on %q, interrupt to stop.\n", c.schedule)
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return subcommands.ExitSuccess
}
