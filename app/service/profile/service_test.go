package profile

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	return &Service{filePath: filepath.Join(t.TempDir(), "profiles.jsonl")}
}

func TestLookupNotFound(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Lookup("+1555"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertAndLookup(t *testing.T) {
	svc := newTestService(t)

	err := svc.Upsert(&UserProfile{
		UserID:   "user-1",
		FullName: "Jordan Avery",
		Phone:    "+1 (555) 000-1111",
		EmergencyContacts: []EmergencyContact{
			{Name: "Sam", Relation: "sibling", Phone: "+1777", Priority: 1},
		},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Phone matching ignores formatting characters.
	user, err := svc.Lookup("+15550001111")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if user.FullName != "Jordan Avery" {
		t.Fatalf("user = %+v", user)
	}
	if len(user.EmergencyContacts) != 1 {
		t.Fatalf("contacts = %+v", user.EmergencyContacts)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Upsert(&UserProfile{Phone: "+1555", FullName: "Old Name"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := svc.Upsert(&UserProfile{Phone: "+1555", FullName: "New Name"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	user, err := svc.Lookup("+1555")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if user.FullName != "New Name" {
		t.Fatalf("full name = %q", user.FullName)
	}

	profiles, err := svc.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profiles = %d, want 1", len(profiles))
	}
}

func TestConcurrentUpsertsKeepAllProfiles(t *testing.T) {
	svc := newTestService(t)

	const perWorker = 50
	var wg sync.WaitGroup

	for worker := 0; worker < 2; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				err := svc.Upsert(&UserProfile{
					Phone:    fmt.Sprintf("+1%d%03d", worker, i),
					FullName: "Someone",
				})
				if err != nil {
					t.Errorf("Upsert: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	svc.mu.RLock()
	profiles, err := svc.load()
	svc.mu.RUnlock()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(profiles) != 2*perWorker {
		t.Fatalf("%d of %d upserted profiles survived", len(profiles), 2*perWorker)
	}
}
