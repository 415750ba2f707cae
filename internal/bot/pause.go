package bot

import (
	"log"
	"sort"
	"sync"
	"time"
)

// PauseRegistry tracks which customer conversations are suspended for human
// handoff and until when. Entries expire lazily: checking or listing prunes
// anything whose resume time has passed, no sweeper needed.
type PauseRegistry struct {
	mu     sync.Mutex
	paused map[string]time.Time
	now    func() time.Time
}

func NewPauseRegistry() *PauseRegistry {
	return &PauseRegistry{
		paused: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (r *PauseRegistry) Pause(phone string, minutes int) {
	r.mu.Lock()
	r.paused[phone] = r.now().Add(time.Duration(minutes) * time.Minute)
	r.mu.Unlock()
	log.Printf("Paused bot for %s for %d minutes", phone, minutes)
}

func (r *PauseRegistry) Resume(phone string) {
	r.mu.Lock()
	delete(r.paused, phone)
	r.mu.Unlock()
	log.Printf("Resumed bot for %s", phone)
}

func (r *PauseRegistry) IsPaused(phone string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.paused[phone]
	if !ok {
		return false
	}
	if r.now().After(until) {
		delete(r.paused, phone)
		return false
	}
	return true
}

// ListPaused returns the currently paused phones in stable order, so the
// numbered resume menu the admin sees matches the selection it captures.
func (r *PauseRegistry) ListPaused() []string {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	phones := make([]string, 0, len(r.paused))
	for phone, until := range r.paused {
		if now.After(until) {
			delete(r.paused, phone)
			continue
		}
		phones = append(phones, phone)
	}
	sort.Strings(phones)
	return phones
}
