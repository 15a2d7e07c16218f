package session

import (
	"sync"

	"github.com/claude/ironlog/internal/models"
)

// EventType discriminates engine notifications.
type EventType string

const (
	// EventSetCompleted fires when a set is marked completed. The rest
	// timer subscribes to this; the engine owns no timer state.
	EventSetCompleted EventType = "set_completed"
	// EventPR fires for each personal record detected at exercise finish.
	EventPR EventType = "pr"
	// EventSessionCompleted fires once when the session log is assembled.
	EventSessionCompleted EventType = "session_completed"
)

// Event is a notification emitted by the engine to its subscribers.
type Event struct {
	Type       EventType                 `json:"type"`
	ExerciseID string                    `json:"exerciseId,omitempty"`
	SetIndex   int                       `json:"setIndex,omitempty"`
	PR         *models.PersonalRecord    `json:"pr,omitempty"`
	Summary    *models.WorkoutSessionLog `json:"summary,omitempty"`
}

// broadcaster fans events out to subscribers. Sends never block: a
// subscriber that falls behind misses events rather than stalling the
// session.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new event channel. The returned func removes and
// closes it.
func (b *broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
