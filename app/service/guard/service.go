package guard

import (
	"errors"
	"sync"
	"time"

	"github.com/samber/do"
)

// ErrBusy marks a sender whose previous message is still being processed.
var ErrBusy = errors.New("sender already processing")

const staleAfter = 2 * time.Minute

// Service serializes message processing per sender. Entries carry an
// acquisition time so a holder that never released (crashed goroutine,
// lost process) is reclaimed instead of wedging the sender forever.
type Service struct {
	mu       sync.Mutex
	inflight map[string]time.Time
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		inflight: make(map[string]time.Time),
	}, nil
}

// TryAcquire reports whether the caller now owns the sender's slot.
func (s *Service) TryAcquire(sender string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acquiredAt, ok := s.inflight[sender]; ok && time.Since(acquiredAt) < staleAfter {
		return false
	}

	s.inflight[sender] = time.Now()

	return true
}

func (s *Service) Release(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, sender)
}
