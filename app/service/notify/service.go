package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"lifeline/app/client/dashboard"
	"lifeline/app/client/loop"
	"lifeline/app/service/alert"
	"lifeline/app/service/profile"
	"lifeline/app/service/reasoner"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const queueSize = 64

var _ do.Shutdownable = (*Service)(nil)

type sender interface {
	Send(ctx context.Context, text, recipient string) error
}

type publisher interface {
	Publish(ctx context.Context, record any) error
}

// Service fans alerts out to the user, the emergency contacts and the
// responder dashboard. Every send is best-effort: failures are logged
// and never break the conversation flow.
type Service struct {
	loopClient sender
	dashClient publisher

	mu     sync.Mutex
	closed bool
	queue  chan alert.Record
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		loopClient: do.MustInvoke[*loop.Client](di),
		dashClient: do.MustInvoke[*dashboard.Client](di),
		queue:      make(chan alert.Record, queueSize),
	}, nil
}

// NotifyUser sends a single message back to the sender.
func (s *Service) NotifyUser(ctx context.Context, text, recipient string) {
	if err := s.loopClient.Send(ctx, text, recipient); err != nil {
		slog.Error("Failed to notify user",
			"recipient", recipient,
			"error", err,
		)
	}
}

// NotifyContacts sends the alert text to every emergency contact in
// priority order. Individual failures do not stop the fan-out.
func (s *Service) NotifyContacts(ctx context.Context, user *profile.UserProfile, decision *reasoner.Decision) {
	contacts := pie.SortUsing(user.EmergencyContacts, func(a, b profile.EmergencyContact) bool {
		return a.Priority < b.Priority
	})

	text := contactMessage(user, decision)

	var group errgroup.Group
	for _, contact := range contacts {
		group.Go(func() error {
			if err := s.loopClient.Send(ctx, text, contact.Phone); err != nil {
				slog.Error("Failed to notify emergency contact",
					"contact", contact.Name,
					"recipient", contact.Phone,
					"error", err,
				)
			}
			return nil
		})
	}
	_ = group.Wait()
}

// PublishIncident enqueues the record for delivery to the dashboard.
// Fire and forget: a full or already closed queue drops the record
// with a warning. A webhook can still be in flight during shutdown,
// so sends must never hit a closed channel.
func (s *Service) PublishIncident(record alert.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		slog.Warn("Incident publish queue is closed, dropping record",
			"alertId", record.AlertID,
			"telegram", true,
		)
		return
	}

	select {
	case s.queue <- record:
	default:
		slog.Warn("Incident publish queue is full, dropping record",
			"alertId", record.AlertID,
			"telegram", true,
		)
	}
}

// Run drains the publish queue until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-s.queue:
			if !ok {
				return
			}

			if err := s.dashClient.Publish(ctx, record); err != nil {
				slog.Error("Failed to publish incident to dashboard",
					"alertId", record.AlertID,
					"error", err,
				)
				continue
			}

			slog.Info("Incident published to dashboard", "alertId", record.AlertID)
		}
	}
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.queue)
	}

	return nil
}

func contactMessage(user *profile.UserProfile, decision *reasoner.Decision) string {
	return fmt.Sprintf(
		"EMERGENCY ALERT: %s may need immediate help (%s, severity %s). %s Reply to this number or call them now.",
		user.FullName, decision.HelpType, decision.Severity, decision.NextAction,
	)
}
