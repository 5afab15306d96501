package reasoner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lifeline/app/client/nearby"
	"lifeline/app/client/reasoning"
	"lifeline/app/config"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
	"github.com/tmc/langchaingo/tools"
)

var (
	// ErrMalformedDecision marks a final payload that is not a Decision.
	ErrMalformedDecision = errors.New("malformed decision payload")
	// ErrToolRounds marks a conversation that requested tools past the cap.
	ErrToolRounds = errors.New("tool round limit exceeded")
)

type promptCaller interface {
	Prompt(ctx context.Context, request reasoning.Request) (string, error)
}

// Service drives the reasoning endpoint through tool calls until it
// produces a Decision.
type Service struct {
	cfg    *config.Config
	caller promptCaller
	tools  []tools.Tool
	decls  []reasoning.ToolDecl
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	client := do.MustInvoke[*reasoning.Client](di)
	nearbyClient := do.MustInvoke[*nearby.Client](di)

	return newService(cfg, client, createNearbyTools(nearbyClient)), nil
}

func newService(cfg *config.Config, caller promptCaller, toolset []tools.Tool) *Service {
	decls := pie.Map(toolset, func(t tools.Tool) reasoning.ToolDecl {
		return reasoning.ToolDecl{
			Name:        t.Name(),
			Description: t.Description(),
		}
	})

	return &Service{
		cfg:    cfg,
		caller: caller,
		tools:  toolset,
		decls:  decls,
	}
}

// Decide runs the bounded tool-call loop over the transcript. Tool
// results are injected right after the tool-call echo so the next pass
// sees them in causal order.
func (s *Service) Decide(ctx context.Context, transcript []reasoning.Message) (*Decision, error) {
	messages := transcript

	for round := 0; ; round++ {
		content, err := s.caller.Prompt(ctx, reasoning.Request{
			Message: messages,
			Tools:   s.decls,
		})
		if err != nil {
			return nil, fmt.Errorf("prompt failed: %w", err)
		}

		payload := trimFences(content)

		calls, ok := parseToolCalls(payload)
		if !ok {
			var decision Decision
			if err = json.Unmarshal([]byte(payload), &decision); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrMalformedDecision, err)
			}

			return &decision, nil
		}

		if round >= s.cfg.Reasoning.MaxToolRounds {
			return nil, ErrToolRounds
		}

		messages = append(messages, reasoning.Message{
			Role:    reasoning.RoleAssistant,
			Content: payload,
		})

		for _, call := range calls {
			messages = append(messages, reasoning.Message{
				Role:    reasoning.RoleSystem,
				Content: fmt.Sprintf("Tool %s returned: %s", call.Name, s.invokeTool(ctx, call)),
			})
		}
	}
}

func (s *Service) invokeTool(ctx context.Context, call toolCall) string {
	idx := pie.FindFirstUsing(s.tools, func(t tools.Tool) bool {
		return t.Name() == call.Name
	})
	if idx < 0 {
		slog.Warn("Reasoning service requested unknown tool", "tool", call.Name)
		return "{}"
	}

	result, err := s.tools[idx].Call(ctx, string(call.Arguments))
	if err != nil {
		slog.Warn("Tool invocation failed, continuing with empty context",
			"tool", call.Name,
			"error", err,
		)
		return "{}"
	}

	return result
}

func parseToolCalls(payload string) ([]toolCall, bool) {
	var envelope toolCallEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, false
	}

	if len(envelope.ToolCalls) == 0 {
		return nil, false
	}

	return envelope.ToolCalls, true
}

func trimFences(content string) string {
	result := strings.Trim(content, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	return result
}
