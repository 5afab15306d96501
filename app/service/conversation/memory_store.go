package conversation

import "sync"

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps conversations in process memory. Used in tests in
// place of the file-backed store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*conversationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*conversationRecord),
	}
}

func (s *MemoryStore) State(sender string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[sender]
	if !ok {
		return State{}, false, nil
	}

	return State{
		Sender:    record.Sender,
		Status:    record.Status,
		UpdatedAt: record.UpdatedAt,
	}, true, nil
}

func (s *MemoryStore) PutState(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.record(state.Sender)
	record.Status = state.Status
	record.UpdatedAt = state.UpdatedAt

	return nil
}

func (s *MemoryStore) Append(sender string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.record(sender)
	record.Entries = append(record.Entries, entry)
	record.UpdatedAt = entry.CreatedAt

	return nil
}

func (s *MemoryStore) History(sender string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[sender]
	if !ok {
		return nil, nil
	}

	entries := record.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	result := make([]Entry, len(entries))
	copy(result, entries)

	return result, nil
}

func (s *MemoryStore) ClearTranscript(sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.records[sender]; ok {
		record.Entries = nil
	}

	return nil
}

func (s *MemoryStore) record(sender string) *conversationRecord {
	record, ok := s.records[sender]
	if !ok {
		record = &conversationRecord{
			Sender: sender,
			Status: StatusActive,
		}
		s.records[sender] = record
	}

	return record
}
