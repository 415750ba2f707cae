package bot

import (
	"log"
	"sync"
	"time"

	"github.com/rogelio-fraga-dev/barberbot/internal/store"
)

// dedupRetention bounds how long a message id is remembered in memory.
// Gateway redeliveries arrive within seconds; 20 minutes is generous.
const dedupRetention = 20 * time.Minute

// DedupGuard absorbs duplicate webhook deliveries. The in-memory claim is the
// fast path; the interaction log is the durable fallback that survives
// restarts.
type DedupGuard struct {
	mu           sync.Mutex
	seen         map[string]time.Time
	interactions *store.InteractionStore
	now          func() time.Time
}

func NewDedupGuard(interactions *store.InteractionStore) *DedupGuard {
	return &DedupGuard{
		seen:         make(map[string]time.Time),
		interactions: interactions,
		now:          time.Now,
	}
}

// ShouldProcess claims the message id and reports whether this delivery is
// the first one. The claim and the duplicate check are a single atomic step,
// so concurrent deliveries of the same id cannot both pass.
func (g *DedupGuard) ShouldProcess(messageID string) bool {
	if messageID == "" {
		return true
	}

	g.mu.Lock()
	if _, dup := g.seen[messageID]; dup {
		g.mu.Unlock()
		return false
	}
	g.seen[messageID] = g.now()
	g.mu.Unlock()

	exists, err := g.interactions.ExistsByMessageID(messageID)
	if err != nil {
		log.Printf("Error checking interaction log for message %s: %v", messageID, err)
		return true
	}
	return !exists
}

// Sweep drops cache entries older than the retention window. Driven by a
// cron entry so memory stays bounded.
func (g *DedupGuard) Sweep() {
	limit := g.now().Add(-dedupRetention)
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, seenAt := range g.seen {
		if seenAt.Before(limit) {
			delete(g.seen, id)
		}
	}
}
