package store

import (
	"github.com/rs/zerolog"

	"github.com/starweb/starweb/game"
)

// Saver is the write-behind slot between the engine and the disk. The
// engine enqueues a snapshot and moves on; if a save is already in flight
// the newest snapshot replaces any still waiting, so at most one write is
// ever pending.
type Saver struct {
	store *Store
	ch    chan *game.Snapshot
	done  chan struct{}
	log   zerolog.Logger
}

// NewSaver starts the background writer.
func NewSaver(store *Store, log zerolog.Logger) *Saver {
	s := &Saver{
		store: store,
		ch:    make(chan *game.Snapshot, 1),
		done:  make(chan struct{}),
		log:   log,
	}
	go s.run()
	return s
}

// Enqueue hands a snapshot to the writer without blocking. A snapshot that
// is still waiting gets replaced; only the engine calls this.
func (s *Saver) Enqueue(snap *game.Snapshot) {
	for {
		select {
		case s.ch <- snap:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

// Close flushes any pending snapshot and stops the writer.
func (s *Saver) Close() {
	close(s.ch)
	<-s.done
}

func (s *Saver) run() {
	defer close(s.done)
	for snap := range s.ch {
		if err := s.store.SaveState(snap); err != nil {
			s.log.Error().Err(err).Int("turn", snap.Turn).Msg("snapshot save failed")
		}
	}
}
