package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lifeline/app/service/alert"
	"lifeline/app/service/profile"
	"lifeline/app/service/reasoner"
)

type fakeSender struct {
	mu         sync.Mutex
	recipients []string
	failFor    map[string]bool
}

func (f *fakeSender) Send(_ context.Context, _, recipient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recipients = append(f.recipients, recipient)
	if f.failFor[recipient] {
		return errors.New("send failed")
	}

	return nil
}

type fakePublisher struct {
	mu      sync.Mutex
	records []any
	err     error
	done    chan struct{}
}

func (f *fakePublisher) Publish(_ context.Context, record any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.records = append(f.records, record)
	if f.done != nil {
		close(f.done)
		f.done = nil
	}

	return f.err
}

func testUser() *profile.UserProfile {
	return &profile.UserProfile{
		FullName: "Jordan Avery",
		Phone:    "+1555",
		EmergencyContacts: []profile.EmergencyContact{
			{Name: "Pat", Phone: "+1888", Priority: 2},
			{Name: "Sam", Phone: "+1777", Priority: 1},
		},
	}
}

func TestNotifyContactsContinuesPastFailures(t *testing.T) {
	loopFake := &fakeSender{failFor: map[string]bool{"+1777": true}}
	svc := &Service{loopClient: loopFake, queue: make(chan alert.Record, 1)}

	svc.NotifyContacts(context.Background(), testUser(), &reasoner.Decision{
		HelpType: "fire", Severity: "high", NextAction: "call 911",
	})

	loopFake.mu.Lock()
	defer loopFake.mu.Unlock()

	if len(loopFake.recipients) != 2 {
		t.Fatalf("both contacts must be attempted, got %v", loopFake.recipients)
	}
}

func TestPublishIncidentDelivers(t *testing.T) {
	done := make(chan struct{})
	dashFake := &fakePublisher{done: done}
	svc := &Service{dashClient: dashFake, queue: make(chan alert.Record, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	svc.PublishIncident(alert.Record{AlertID: "a-1"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("record was not delivered to the dashboard client")
	}

	dashFake.mu.Lock()
	defer dashFake.mu.Unlock()

	if len(dashFake.records) != 1 {
		t.Fatalf("records = %v", dashFake.records)
	}
}

func TestPublishIncidentAfterShutdown(t *testing.T) {
	svc := &Service{queue: make(chan alert.Record, 1)}

	if err := svc.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	// A webhook still in flight during shutdown must drop the record,
	// not panic on the closed queue.
	svc.PublishIncident(alert.Record{AlertID: "a-late"})

	// Repeated shutdown stays a no-op.
	if err := svc.Shutdown(); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}

func TestPublishIncidentDropsWhenFull(t *testing.T) {
	svc := &Service{queue: make(chan alert.Record, 1)}

	svc.PublishIncident(alert.Record{AlertID: "a-1"})
	// Queue is full; this must not block.
	svc.PublishIncident(alert.Record{AlertID: "a-2"})

	if len(svc.queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(svc.queue))
	}
}
