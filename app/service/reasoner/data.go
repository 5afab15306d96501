package reasoner

import "encoding/json"

// Decision is the reasoning service's final verdict for one turn.
type Decision struct {
	AskForLocation    bool    `json:"ask_for_location"`
	AskForDescription bool    `json:"ask_for_description"`
	SOSTrigger        bool    `json:"sos_trigger"`
	Severity          string  `json:"severity"`
	Confidence        float32 `json:"confidence"`
	TriageNotes       string  `json:"triage_notes"`
	HelpType          string  `json:"help_type"`
	NextAction        string  `json:"next_action"`
	LocationURL       string  `json:"location_url"`
	Reason            string  `json:"reason"`
}

type toolCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type toolCallEnvelope struct {
	ToolCalls []toolCall `json:"tool_calls"`
}
