package service

import "github.com/google/uuid"

// CurrentSnapshot returns the most recently built snapshot. ok is false
// before the first pass completes.
func (s *Service) CurrentSnapshot() (Snapshot, bool) {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	if s.last == nil {
		return Snapshot{}, false
	}
	return *s.last, true
}

// Subscribe registers a snapshot listener and returns its token and
// channel. Each completed pipeline pass delivers one snapshot; a slow
// subscriber only ever lags by one, older snapshots are dropped.
func (s *Service) Subscribe() (string, <-chan Snapshot) {
	token := uuid.NewString()
	ch := make(chan Snapshot, 1)

	s.subMu.Lock()
	s.subs[token] = ch
	s.subMu.Unlock()

	return token, ch
}

// Unsubscribe detaches a listener and closes its channel. Unknown tokens
// are ignored.
func (s *Service) Unsubscribe(token string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[token]; ok {
		delete(s.subs, token)
		close(ch)
	}
}

func (s *Service) publish(snap Snapshot) {
	s.snapMu.Lock()
	s.last = &snap
	s.snapMu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// Keep only the freshest snapshot per subscriber.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
