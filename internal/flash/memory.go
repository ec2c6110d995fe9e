package flash

import (
	"context"
	"sync"
)

// Memory is a process-local Store for single-instance and development use.
type Memory struct {
	mu   sync.Mutex
	msgs map[string][]Message
}

func NewMemory() *Memory { return &Memory{msgs: map[string][]Message{}} }

func (s *Memory) Push(_ context.Context, sid string, m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[sid] = append(s.msgs[sid], m)
	return nil
}

func (s *Memory) Pop(_ context.Context, sid string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.msgs[sid]
	delete(s.msgs, sid)
	return out, nil
}

func (s *Memory) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.msgs, sid)
	return nil
}
