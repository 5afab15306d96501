package profile

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"lifeline/app/config"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/do"
)

// ErrNotFound marks a sender without a registered profile.
var ErrNotFound = errors.New("profile not found")

// Service is the file-backed user-profile store. Profiles are created
// by the registration site; the orchestrator only reads them.
type Service struct {
	filePath string
	mu       sync.RWMutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	dataDir := cfg.Conversation.DataDir
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	filePath := filepath.Join(dataDir, "profiles.jsonl")

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles file: %w", err)
	}
	_ = file.Close()

	return &Service{filePath: filePath}, nil
}

// Lookup finds a profile by its phone number.
func (s *Service) Lookup(phone string) (*UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		if normalizePhone(p.Phone) == normalizePhone(phone) {
			return p, nil
		}
	}

	return nil, ErrNotFound
}

// Upsert inserts or replaces the profile with a matching phone number.
// The load-modify-save cycle runs under one write lock so concurrent
// upserts cannot discard each other.
func (s *Service) Upsert(profile *UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, p := range profiles {
		if normalizePhone(p.Phone) == normalizePhone(profile.Phone) {
			profiles[i] = profile
			replaced = true
			break
		}
	}
	if !replaced {
		profiles = append(profiles, profile)
	}

	return s.save(profiles)
}

// load expects the caller to hold mu.
func (s *Service) load() ([]*UserProfile, error) {
	file, err := os.OpenFile(s.filePath, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles file: %w", err)
	}
	defer file.Close()

	var profiles []*UserProfile

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p UserProfile
		if err = json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("failed to parse profile line: %w", err)
		}

		profiles = append(profiles, &p)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading profiles file: %w", err)
	}

	return profiles, nil
}

// save expects the caller to hold mu for writing.
func (s *Service) save(profiles []*UserProfile) error {
	file, err := os.OpenFile(s.filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open profiles file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	for _, p := range profiles {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		if _, err = writer.WriteString(string(data) + "\n"); err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}

func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, phone)
}
