package webhook

import (
	"fmt"
	"strings"

	"lifeline/app/client/reasoning"
	"lifeline/app/service/conversation"
	"lifeline/app/service/profile"

	_ "embed"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

func isResetCommand(text string) bool {
	return strings.Contains(strings.ToLower(text), "start over")
}

// buildTranscript assembles the system prompt and the capped history
// for the reasoning service.
func (s *Service) buildTranscript(sender string, user *profile.UserProfile, convCtx conversation.Context) ([]reasoning.Message, error) {
	history, err := s.store.History(sender, s.cfg.Conversation.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	templateValues := map[string]any{
		"full_name":          user.FullName,
		"medical_conditions": formatList(user.MedicalConditions),
		"context_notes":      contextNotes(convCtx),
	}

	prompt := systemPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", fmt.Sprint(value))
	}

	transcript := make([]reasoning.Message, 0, len(history)+1)
	transcript = append(transcript, reasoning.Message{
		Role:    reasoning.RoleSystem,
		Content: prompt,
	})

	for _, entry := range history {
		transcript = append(transcript, reasoning.Message{
			Role:    entry.Role,
			Content: entry.Content,
		})
	}

	return transcript, nil
}

func contextNotes(convCtx conversation.Context) string {
	var notes []string

	if convCtx.LocationReceived {
		notes = append(notes, "The sender has already shared their location.")
	}
	if convCtx.DescriptionReceived {
		notes = append(notes, "The sender has already described the situation.")
	}
	if convCtx.PendingSOS != nil {
		notes = append(notes, "An emergency was already detected and is waiting for a location.")
	}

	if len(notes) == 0 {
		return "Nothing is known about the situation yet."
	}

	return strings.Join(notes, " ")
}

func formatList(values []string) string {
	if len(values) == 0 {
		return "none"
	}

	return strings.Join(values, ", ")
}
