package conversation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"lifeline/app/config"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samber/do"
)

var _ Store = (*FileStore)(nil)

// FileStore persists conversations as one JSON line per sender.
type FileStore struct {
	filePath string
	mu       sync.RWMutex
}

type conversationRecord struct {
	Sender    string    `json:"sender"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
	Entries   []Entry   `json:"entries"`
}

func NewFileStore(di *do.Injector) (Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	dataDir := cfg.Conversation.DataDir
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	filePath := filepath.Join(dataDir, "conversations.jsonl")

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversations file: %w", err)
	}
	_ = file.Close()

	return &FileStore{filePath: filePath}, nil
}

func (s *FileStore) State(sender string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load()
	if err != nil {
		return State{}, false, err
	}

	record, ok := records[sender]
	if !ok {
		return State{}, false, nil
	}

	return State{
		Sender:    record.Sender,
		Status:    record.Status,
		UpdatedAt: record.UpdatedAt,
	}, true, nil
}

func (s *FileStore) PutState(state State) error {
	return s.mutate(state.Sender, func(record *conversationRecord) {
		record.Status = state.Status
		record.UpdatedAt = state.UpdatedAt
	})
}

func (s *FileStore) Append(sender string, entry Entry) error {
	return s.mutate(sender, func(record *conversationRecord) {
		record.Entries = append(record.Entries, entry)
		record.UpdatedAt = entry.CreatedAt
	})
}

func (s *FileStore) History(sender string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	record, ok := records[sender]
	if !ok {
		return nil, nil
	}

	entries := record.Entries
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return entries, nil
}

func (s *FileStore) ClearTranscript(sender string) error {
	return s.mutate(sender, func(record *conversationRecord) {
		record.Entries = nil
		record.UpdatedAt = time.Now()
	})
}

// mutate runs the whole load-modify-save cycle under the write lock.
// The per-sender guard only serializes messages within one sender, so
// mutations for different senders race here without it and the last
// save would discard the other's write.
func (s *FileStore) mutate(sender string, fn func(record *conversationRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	record, ok := records[sender]
	if !ok {
		record = &conversationRecord{
			Sender: sender,
			Status: StatusActive,
		}
		records[sender] = record
	}

	fn(record)

	return s.save(records)
}

// load expects the caller to hold mu.
func (s *FileStore) load() (map[string]*conversationRecord, error) {
	file, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversations file: %w", err)
	}
	defer file.Close()

	records := make(map[string]*conversationRecord)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record conversationRecord
		if err = json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("failed to parse conversation line: %w", err)
		}

		records[record.Sender] = &record
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading conversations file: %w", err)
	}

	return records, nil
}

// save expects the caller to hold mu for writing.
func (s *FileStore) save(records map[string]*conversationRecord) error {
	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open conversations file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal conversation: %w", err)
		}
		if _, err = writer.WriteString(string(data) + "\n"); err != nil {
			return fmt.Errorf("failed to write conversation: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}
