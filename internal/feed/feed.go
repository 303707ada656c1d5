package feed

import "sync"

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event describes one committed change on a source table. Consumers treat
// any event as an invalidate-and-reload command; there is no delta payload.
type Event struct {
	Table    string
	Op       Op
	UserID   int64
	RecordID int64
}

type subscriber struct {
	tables map[string]bool // empty means all tables
	ch     chan Event
}

// Feed is an in-process change feed over the source tables. Repositories
// publish after every successful write; screens subscribe and re-run their
// full fetch on every notification.
type Feed struct {
	mu   sync.Mutex
	subs []*subscriber
}

func New() *Feed {
	return &Feed{}
}

// Subscribe returns a channel receiving events for the given tables, or for
// all tables when none are named. The channel is buffered; if a subscriber
// falls behind, events are dropped, which is safe because every event means
// the same thing: reload.
func (f *Feed) Subscribe(tables ...string) <-chan Event {
	sub := &subscriber{
		tables: make(map[string]bool, len(tables)),
		ch:     make(chan Event, 16),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	f.mu.Lock()
	f.subs = append(f.subs, sub)
	f.mu.Unlock()

	return sub.ch
}

func (f *Feed) Publish(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if len(sub.tables) > 0 && !sub.tables[e.Table] {
			continue
		}
		select {
		case sub.ch <- e:
		default:
		}
	}
}
