// Package live tracks content revisions so open pages can refresh when the
// admin console saves a change.
package live

import (
	"context"
	"time"

	"weddingsite/prefs"
)

type Topic string

const (
	TopicContent      Topic = "content"
	TopicTranslations Topic = "translations"
)

// Revision counts saved changes per topic.
type Revision struct {
	Content      uint64    `json:"content"`
	Translations uint64    `json:"translations"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Hub struct {
	store *prefs.Store[Revision]
	now   func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		store: prefs.New(Revision{}),
		now:   time.Now,
	}
}

// Snapshot returns the current revision.
func (h *Hub) Snapshot() Revision {
	return h.store.Snapshot()
}

// Publish records a change to topic and notifies every watcher.
func (h *Hub) Publish(topic Topic) Revision {
	return h.store.Update(func(r Revision) Revision {
		switch topic {
		case TopicContent:
			r.Content++
		case TopicTranslations:
			r.Translations++
		}
		r.UpdatedAt = h.now().UTC()
		return r
	})
}

// Watch streams the current revision followed by every later one until ctx
// is done. Slow readers only see the latest revision.
func (h *Hub) Watch(ctx context.Context) <-chan Revision {
	out := make(chan Revision, 1)
	signal := make(chan struct{}, 1)
	unsubscribe := h.store.Subscribe(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(out)
		defer unsubscribe()
		last := h.store.Snapshot()
		select {
		case out <- last:
		case <-ctx.Done():
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				current := h.store.Snapshot()
				if current == last {
					continue
				}
				last = current
				select {
				case out <- current:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Watchers returns the number of open watches.
func (h *Hub) Watchers() int {
	return h.store.Subscribers()
}
