// Package identity abstracts the external identity provider. The engine
// only needs a stable user id, the anonymous flag, and change
// notifications; sign-in itself happens elsewhere.
package identity

import (
	"sync"

	"github.com/screenkeep/screenkeep/internal/constants"
)

// Provider exposes the current identity and identity-change
// notifications. The returned cancel func detaches the subscriber.
type Provider interface {
	CurrentUID() string
	IsAnonymous() bool
	Subscribe(fn func(uid string, anonymous bool)) (cancel func())
}

// Static is a Provider holding a settable uid. SetUID fires subscribers
// synchronously, which makes identity-change flows trivial to drive from
// the CLI and from tests.
type Static struct {
	mu   sync.Mutex
	uid  string
	subs map[int]func(uid string, anonymous bool)
	next int
}

// NewStatic returns a Static provider. An empty uid means anonymous.
func NewStatic(uid string) *Static {
	if uid == "" {
		uid = constants.AnonymousUID
	}
	return &Static{uid: uid, subs: map[int]func(string, bool){}}
}

func (s *Static) CurrentUID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}

func (s *Static) IsAnonymous() bool {
	return s.CurrentUID() == constants.AnonymousUID
}

// SetUID switches identity and notifies subscribers. Setting the same uid
// again is a no-op.
func (s *Static) SetUID(uid string) {
	if uid == "" {
		uid = constants.AnonymousUID
	}

	s.mu.Lock()
	if uid == s.uid {
		s.mu.Unlock()
		return
	}
	s.uid = uid
	subs := make([]func(string, bool), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	anonymous := uid == constants.AnonymousUID
	for _, fn := range subs {
		fn(uid, anonymous)
	}
}

func (s *Static) Subscribe(fn func(uid string, anonymous bool)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
