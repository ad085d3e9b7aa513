package draft

import (
	"fmt"
	"sync"
	"time"
)

// Sequence issues PO numbers of the form PO<YYYYMMDD><NNN>, where NNN is a
// running counter. The counter only moves forward once a document was
// generated, so a failed attempt reuses its number.
type Sequence struct {
	mu   sync.Mutex
	next int
	now  func() time.Time
}

// NewSequence starts counting at start. A nil now uses time.Now.
func NewSequence(start int, now func() time.Time) *Sequence {
	if start < 1 {
		start = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Sequence{next: start, now: now}
}

// Peek returns the number the next document gets.
func (s *Sequence) Peek() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format()
}

// Advance moves to the next number.
func (s *Sequence) Advance() {
	s.mu.Lock()
	s.next++
	s.mu.Unlock()
}

// Issue calls fn with the next number and advances only if fn succeeds.
// Concurrent calls are serialized so no number is handed out twice.
func (s *Sequence) Issue(fn func(poNumber string) error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po := s.format()
	if err := fn(po); err != nil {
		return po, err
	}
	s.next++
	return po, nil
}

func (s *Sequence) format() string {
	return fmt.Sprintf("PO%s%03d", s.now().Format("20060102"), s.next)
}
