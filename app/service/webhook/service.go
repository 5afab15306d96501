package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lifeline/app/client/nearby"
	"lifeline/app/client/reasoning"
	"lifeline/app/config"
	"lifeline/app/service/alert"
	"lifeline/app/service/conversation"
	"lifeline/app/service/guard"
	"lifeline/app/service/notify"
	"lifeline/app/service/profile"
	"lifeline/app/service/reasoner"
	"lifeline/app/util/geourl"

	"github.com/go-playground/validator/v10"
	"github.com/samber/do"
)

const alertTypeMessageSent = "message_sent"

const (
	outcomeIgnored          = "ignored"
	outcomeReset            = "reset"
	outcomeResolvedAck      = "resolved-ack"
	outcomeAskedLocation    = "asked-location"
	outcomeAskedDescription = "asked-description"
	outcomeAwaitingLocation = "awaiting-location"
	outcomeSOSDispatched    = "sos-dispatched"
	outcomeResolvedNoSOS    = "resolved-no-sos"
	outcomeReasoningFailed  = "reasoning-failed"
)

const (
	msgOnboarding     = "We couldn't find your profile. Please create your account on the registration site before using the SOS line."
	msgResetAck       = "Okay, starting over. Tell me what's happening and share your location when you can."
	msgResolvedAck    = "This conversation is closed. Text \"start over\" to begin a new one."
	msgAskLocation    = "Please share your location as an Apple Maps or Google Maps link so responders can find you."
	msgAskDescription = "Can you describe what's happening in a few words?"
	msgSOSConfirmed   = "Help is on the way. Your emergency contacts and responders have been alerted. Stay where you are if it's safe."
	msgNoEmergency    = "Glad you're safe. Text this number any time you need help."
	msgGenericFailure = "Sorry, something went wrong on our side. Please send your message again."
)

type profileStore interface {
	Lookup(phone string) (*profile.UserProfile, error)
}

type senderGuard interface {
	TryAcquire(sender string) bool
	Release(sender string)
}

type decider interface {
	Decide(ctx context.Context, transcript []reasoning.Message) (*reasoner.Decision, error)
}

type dispatcher interface {
	NotifyUser(ctx context.Context, text, recipient string)
	NotifyContacts(ctx context.Context, user *profile.UserProfile, decision *reasoner.Decision)
	PublishIncident(record alert.Record)
}

type nearbyFetcher interface {
	Fetch(ctx context.Context, lat, lng float64) (*nearby.Context, error)
}

// Service is the per-message conversation orchestrator behind the
// webhook endpoint.
type Service struct {
	cfg      *config.Config
	profiles profileStore
	store    conversation.Store
	contexts *conversation.ContextCache
	guardSvc senderGuard
	decider  decider
	notify   dispatcher
	nearby   nearbyFetcher
	validate *validator.Validate
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		profiles: do.MustInvoke[*profile.Service](di),
		store:    do.MustInvoke[conversation.Store](di),
		contexts: do.MustInvoke[*conversation.ContextCache](di),
		guardSvc: do.MustInvoke[*guard.Service](di),
		decider:  do.MustInvoke[*reasoner.Service](di),
		notify:   do.MustInvoke[*notify.Service](di),
		nearby:   do.MustInvoke[*nearby.Client](di),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// HandleMessage runs one inbound message through the state machine and
// returns the outcome label. Sentinel errors map to HTTP statuses in
// the handler.
func (s *Service) HandleMessage(ctx context.Context, alertType, sender, text string) (string, error) {
	if alertType == alertTypeMessageSent {
		slog.Debug("Skipping platform delivery receipt", "sender", sender)
		return outcomeIgnored, nil
	}

	if !s.guardSvc.TryAcquire(sender) {
		return "", guard.ErrBusy
	}
	defer s.guardSvc.Release(sender)

	user, err := s.profiles.Lookup(sender)
	if errors.Is(err, profile.ErrNotFound) {
		s.notify.NotifyUser(ctx, msgOnboarding, sender)
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("profile lookup failed: %w", err)
	}

	state, found, err := s.store.State(sender)
	if err != nil {
		return "", fmt.Errorf("failed to read conversation state: %w", err)
	}
	if !found {
		state = conversation.State{
			Sender:    sender,
			Status:    conversation.StatusActive,
			UpdatedAt: time.Now(),
		}
		if err = s.store.PutState(state); err != nil {
			return "", fmt.Errorf("failed to create conversation state: %w", err)
		}
	}

	if isResetCommand(text) {
		return s.reset(ctx, sender)
	}

	if state.Status == conversation.StatusResolved {
		s.notify.NotifyUser(ctx, msgResolvedAck, sender)
		return outcomeResolvedAck, nil
	}

	convCtx := s.contexts.Get(sender)

	if convCtx.PendingSOS != nil {
		if coords, ok := geourl.Extract(text); ok {
			if err = s.appendEntry(sender, conversation.RoleUser, text); err != nil {
				return "", err
			}
			return s.completeSOS(ctx, sender, user, convCtx.PendingSOS, coords)
		}
	}

	return s.generalTurn(ctx, sender, user, text, convCtx)
}

func (s *Service) generalTurn(ctx context.Context, sender string, user *profile.UserProfile, text string, convCtx conversation.Context) (string, error) {
	if err := s.appendEntry(sender, conversation.RoleUser, text); err != nil {
		return "", err
	}

	if geourl.ContainsMapLink(text) {
		convCtx.LocationReceived = true
	}
	if len(text) >= s.cfg.Conversation.MinDescriptionLength {
		convCtx.DescriptionReceived = true
	}
	s.contexts.Put(sender, convCtx)

	transcript, err := s.buildTranscript(sender, user, convCtx)
	if err != nil {
		return "", err
	}

	decision, err := s.decider.Decide(ctx, transcript)
	if err != nil {
		slog.Error("Decision cycle failed, conversation stays open",
			"sender", sender,
			"error", err,
		)
		s.notify.NotifyUser(ctx, msgGenericFailure, sender)
		return outcomeReasoningFailed, nil
	}

	switch {
	case decision.AskForLocation && !convCtx.LocationReceived:
		s.reply(ctx, sender, msgAskLocation)
		return outcomeAskedLocation, nil

	case decision.AskForDescription && !convCtx.DescriptionReceived:
		s.reply(ctx, sender, msgAskDescription)
		return outcomeAskedDescription, nil

	case decision.SOSTrigger:
		coords, ok := geourl.Extract(decision.LocationURL)
		if !ok {
			// Never drop a judged emergency: hold it until the
			// location arrives.
			convCtx.PendingSOS = decision
			s.contexts.Put(sender, convCtx)
			s.reply(ctx, sender, msgAskLocation)
			return outcomeAwaitingLocation, nil
		}
		return s.completeSOS(ctx, sender, user, decision, coords)

	default:
		reason := decision.Reason
		if reason == "" {
			reason = msgNoEmergency
		}
		s.reply(ctx, sender, reason)
		if err = s.resolve(sender); err != nil {
			return "", err
		}
		return outcomeResolvedNoSOS, nil
	}
}

func (s *Service) completeSOS(ctx context.Context, sender string, user *profile.UserProfile, decision *reasoner.Decision, coords geourl.Coords) (string, error) {
	nearbyCtx, err := s.nearby.Fetch(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		slog.Warn("Nearby context unavailable, dispatching without it",
			"sender", sender,
			"error", err,
		)
		nearbyCtx = nil
	}

	record := alert.Build(user, decision, nearbyCtx, coords.Latitude, coords.Longitude)

	s.notify.PublishIncident(record)
	s.reply(ctx, sender, msgSOSConfirmed)
	s.notify.NotifyContacts(ctx, user, decision)

	if err = s.resolve(sender); err != nil {
		return "", err
	}

	slog.Info("SOS dispatched",
		"sender", sender,
		"alertId", record.AlertID,
		"severity", decision.Severity,
		"telegram", true,
	)

	return outcomeSOSDispatched, nil
}

func (s *Service) reset(ctx context.Context, sender string) (string, error) {
	if err := s.store.ClearTranscript(sender); err != nil {
		return "", fmt.Errorf("failed to clear transcript: %w", err)
	}

	err := s.store.PutState(conversation.State{
		Sender:    sender,
		Status:    conversation.StatusActive,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to reset conversation state: %w", err)
	}

	s.contexts.Delete(sender)
	s.notify.NotifyUser(ctx, msgResetAck, sender)

	return outcomeReset, nil
}

func (s *Service) resolve(sender string) error {
	err := s.store.PutState(conversation.State{
		Sender:    sender,
		Status:    conversation.StatusResolved,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to resolve conversation: %w", err)
	}

	s.contexts.Delete(sender)

	return nil
}

// reply records the assistant's message and sends it to the sender.
func (s *Service) reply(ctx context.Context, sender, text string) {
	if err := s.appendEntry(sender, conversation.RoleAssistant, text); err != nil {
		slog.Error("Failed to record assistant reply", "sender", sender, "error", err)
	}

	s.notify.NotifyUser(ctx, text, sender)
}

func (s *Service) appendEntry(sender, role, content string) error {
	err := s.store.Append(sender, conversation.Entry{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to append transcript entry: %w", err)
	}

	return nil
}
