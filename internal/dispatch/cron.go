package dispatch

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/rogelio-fraga-dev/barberbot/internal/bot"
)

// Scheduler owns the cron runner behind the periodic work: the minutely
// dispatch cycle, the two daily admin reports and the dedup cache sweep.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(engine *Engine, reporter *Reporter, dedup *bot.DedupGuard) (*Scheduler, error) {
	runner := cron.New()

	entries := []struct {
		spec string
		job  func()
	}{
		{"@every 1m", engine.RunCycle},
		{"0 8 * * *", reporter.SendMorningReport},
		{"0 21 * * *", reporter.SendNightlyAgendaNudge},
		{"@every 10m", dedup.Sweep},
	}
	for _, entry := range entries {
		if _, err := runner.AddFunc(entry.spec, entry.job); err != nil {
			return nil, fmt.Errorf("failed to register cron entry %q: %w", entry.spec, err)
		}
	}

	return &Scheduler{cron: runner}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[dispatch] scheduler started")
}

// Stop halts the runner; jobs already in flight finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[dispatch] scheduler stopped")
}
