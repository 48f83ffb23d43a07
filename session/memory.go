package session

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sahayak-labs/sahayak/core/protocol"
)

type conversation struct {
	id       string
	state    State
	messages []protocol.Message
}

type memoryStore struct {
	cfg      Config
	mu       sync.RWMutex
	sessions map[string]*conversation
}

// NewMemoryStore creates a Store backed by an in-process map. Sessions live
// for the process lifetime; there is no expiry beyond explicit Clear.
func NewMemoryStore(cfg Config) Store {
	if cfg.MaxHistoryLength <= 0 {
		cfg.MaxHistoryLength = DefaultMaxHistoryLength
	}
	if cfg.SystemMessage == "" {
		cfg.SystemMessage = DefaultSystemMessage
	}
	return &memoryStore{
		cfg:      cfg,
		sessions: make(map[string]*conversation),
	}
}

func (s *memoryStore) Ensure(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(user)
}

func (s *memoryStore) ensureLocked(user string) *conversation {
	if conv, exists := s.sessions[user]; exists {
		return conv
	}

	conv := &conversation{
		id:    uuid.Must(uuid.NewV7()).String(),
		state: StateGreeting,
		messages: []protocol.Message{
			protocol.NewMessage(protocol.RoleSystem, s.cfg.SystemMessage),
		},
	}
	s.sessions[user] = conv
	return conv
}

func (s *memoryStore) Append(user string, role protocol.Role, content any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.ensureLocked(user)

	msg := protocol.NewMessage(role, content)
	msg.Timestamp = time.Now()
	conv.messages = append(conv.messages, msg)

	// Keep the system message plus the newest MaxHistoryLength turns.
	if len(conv.messages) > s.cfg.MaxHistoryLength+1 {
		kept := make([]protocol.Message, 0, s.cfg.MaxHistoryLength+1)
		kept = append(kept, conv.messages[0])
		kept = append(kept, conv.messages[len(conv.messages)-s.cfg.MaxHistoryLength:]...)
		conv.messages = kept
	}
}

func (s *memoryStore) History(user string) []protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.ensureLocked(user)

	copied := make([]protocol.Message, len(conv.messages))
	for i, msg := range conv.messages {
		copied[i] = msg
		copied[i].ToolCalls = slices.Clone(msg.ToolCalls)
	}
	return copied
}

func (s *memoryStore) State(user string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(user).state
}

func (s *memoryStore) SetState(user string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(user).state = state
}

func (s *memoryStore) Clear(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, user)
}

func (s *memoryStore) ActiveUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.sessions))
	for user := range s.sessions {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}
