package reasoner

import (
	"context"
	"encoding/json"
	"fmt"
	"lifeline/app/client/nearby"

	"github.com/tmc/langchaingo/tools"
)

type agentTool struct {
	name        string
	description string
	call        func(ctx context.Context, input string) (string, error)
}

func (m *agentTool) Name() string {
	return m.name
}

func (m *agentTool) Description() string {
	return m.description
}

func (m *agentTool) Call(ctx context.Context, input string) (string, error) {
	return m.call(ctx, input)
}

type nearbyArgs struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func createNearbyTools(client *nearby.Client) []tools.Tool {
	return []tools.Tool{
		&agentTool{
			name:        "get_nearby_context",
			description: "Fetch hospitals, police stations, fire stations and weather near a coordinate. Input must be a JSON object with latitude (number) and longitude (number) fields.",
			call: func(ctx context.Context, input string) (string, error) {
				var args nearbyArgs
				if err := json.Unmarshal([]byte(input), &args); err != nil {
					return "", fmt.Errorf("invalid arguments JSON: %w", err)
				}

				nearbyCtx, err := client.Fetch(ctx, args.Latitude, args.Longitude)
				if err != nil {
					return "", err
				}

				result, _ := json.Marshal(nearbyCtx)
				return string(result), nil
			},
		},
	}
}
