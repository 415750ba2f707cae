// Package dispatch runs the scheduled-send machinery: the minutely engine
// that delivers due actions and the cron-driven admin reports.
package dispatch

import (
	"log"
	"sync"
	"time"

	"github.com/rogelio-fraga-dev/barberbot/internal/bot"
	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/metrics"
	"github.com/rogelio-fraga-dev/barberbot/internal/models"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
)

const maxAttempts = 3

// Sender is the outbound side the engine needs from the gateway client.
type Sender interface {
	SendText(phone, text string) error
}

// Engine drains due scheduled actions in order, one batch per cycle.
// Every lifecycle mutation is persisted before the action is considered
// final, so a crash mid-cycle never loses state.
type Engine struct {
	actions *store.ActionStore
	sender  Sender
	pauses  *bot.PauseRegistry
	cfg     *config.Config

	now   func() time.Time
	sleep func(time.Duration)

	running sync.Mutex
}

func NewEngine(actions *store.ActionStore, sender Sender, pauses *bot.PauseRegistry, cfg *config.Config) *Engine {
	return &Engine{
		actions: actions,
		sender:  sender,
		pauses:  pauses,
		cfg:     cfg,
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// RunCycle processes one batch of due actions. If the previous cycle is
// still draining its batch the call returns immediately; the next tick picks
// the work up.
func (e *Engine) RunCycle() {
	if !e.running.TryLock() {
		log.Println("[dispatch] previous cycle still running, skipping tick")
		return
	}
	defer e.running.Unlock()

	now := e.now()
	due, err := e.actions.DuePending(now)
	if err != nil {
		log.Printf("[dispatch] error loading due actions: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	log.Printf("[dispatch] processing %d due actions", len(due))

	sent := 0
	for i := range due {
		if sent >= e.cfg.DispatchBatchSize {
			log.Println("[dispatch] batch limit reached, remaining actions wait for the next cycle")
			break
		}
		action := &due[i]

		// Customer in human handoff: push the send out an hour, keep PENDING.
		if e.pauses.IsPaused(action.CustomerPhone) {
			action.ExecutionTime = now.Add(time.Hour)
			if err := e.actions.Save(action); err != nil {
				log.Printf("[dispatch] error rescheduling action %s: %v", action.ID, err)
			}
			metrics.ActionsDispatched.WithLabelValues("deferred").Inc()
			log.Printf("[dispatch] %s is paused, action %s deferred one hour", action.CustomerPhone, action.ID)
			continue
		}

		if err := e.sender.SendText(action.CustomerPhone, action.MessageContent); err != nil {
			e.recordFailure(action, err)
			continue
		}

		completedAt := e.now()
		action.Status = models.ActionCompleted
		action.CompletedAt = &completedAt
		if err := e.actions.Save(action); err != nil {
			log.Printf("[dispatch] error completing action %s: %v", action.ID, err)
		}
		metrics.ActionsDispatched.WithLabelValues("sent").Inc()
		sent++

		if e.cfg.DispatchMessageDelay > 0 && i < len(due)-1 {
			e.sleep(e.cfg.DispatchMessageDelay)
		}
	}

	log.Printf("[dispatch] cycle done, %d actions sent", sent)
}

func (e *Engine) recordFailure(action *models.ScheduledAction, sendErr error) {
	action.Attempts++
	if action.Attempts >= maxAttempts {
		action.Status = models.ActionFailed
		metrics.ActionsDispatched.WithLabelValues("failed").Inc()
		log.Printf("[dispatch] action %s failed permanently after %d attempts: %v", action.ID, action.Attempts, sendErr)
	} else {
		metrics.ActionsDispatched.WithLabelValues("retried").Inc()
		log.Printf("[dispatch] action %s attempt %d failed, will retry: %v", action.ID, action.Attempts, sendErr)
	}
	if err := e.actions.Save(action); err != nil {
		log.Printf("[dispatch] error saving failed action %s: %v", action.ID, err)
	}
}
