package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/femivideograph/script-ai-worker/internal/domain"
)

var ErrGeminiUnavailable = errors.New("gemini api key is not configured")

const shotPlannerInstruction = `You are a professional film director breaking a screenplay scene into a shot list.

For the scene you receive, produce between 3 and 8 shots. Each shot describes exactly ONE camera setup.

A good shot description covers a single angle on a single subject or action:
- "Close-up on Anna's hands wrapped around the coffee cup"
- "Wide establishing shot of the empty diner from the doorway"

A bad shot description restates the whole scene or bundles several setups:
- "Anna drinks coffee, Mark walks in, they argue and she leaves"
- the full scene text copied verbatim

Never return the scene text as a shot description. Fill every field of every shot.`

type GeminiClientConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiClient implements ShotPlanner on the Gemini API using a structured
// response schema so the reply parses directly into a SceneBreakdown.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg GeminiClientConfig) (*GeminiClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrGeminiUnavailable
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) PlanShots(ctx context.Context, request SceneRequest) (SceneBreakdown, error) {
	if strings.TrimSpace(request.Text) == "" {
		return SceneBreakdown{}, errors.New("scene text is required")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = breakdownSchema()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(shotPlannerInstruction)},
	}

	prompt := fmt.Sprintf("Scene heading: %s\n\nScene text:\n%s", request.Heading, request.Text)
	response, err := model.GenerateContent(timeoutCtx, genai.Text(prompt))
	if err != nil {
		return SceneBreakdown{}, fmt.Errorf("gemini generate: %w", err)
	}

	payload, err := extractJSON(response)
	if err != nil {
		return SceneBreakdown{}, err
	}

	var breakdown SceneBreakdown
	if err := json.Unmarshal([]byte(payload), &breakdown); err != nil {
		return SceneBreakdown{}, fmt.Errorf("decode gemini breakdown: %w", err)
	}
	return breakdown, nil
}

func breakdownSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"scene_location": {
				Type:        genai.TypeString,
				Description: "Short name of the scene's location or setting",
			},
			"shot_list": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"description": {
							Type:        genai.TypeString,
							Description: "One camera setup, never the full scene text",
						},
						"size": {
							Type: genai.TypeString,
							Enum: domain.ShotSizeValues(),
						},
						"type": {
							Type: genai.TypeString,
							Enum: domain.ShotTypeValues(),
						},
						"camera_movement": {
							Type: genai.TypeString,
							Enum: domain.CameraMovementValues(),
						},
						"equipment": {
							Type: genai.TypeString,
							Enum: domain.EquipmentValues(),
						},
					},
					Required: []string{"description", "size", "type", "camera_movement", "equipment"},
				},
			},
		},
		Required: []string{"scene_location", "shot_list"},
	}
}

func extractJSON(response *genai.GenerateContentResponse) (string, error) {
	if response == nil || len(response.Candidates) == 0 {
		return "", errors.New("gemini response without candidates")
	}
	candidate := response.Candidates[0]
	if candidate.Content == nil {
		return "", errors.New("gemini candidate without content")
	}

	fragments := make([]string, 0, len(candidate.Content.Parts))
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			fragments = append(fragments, string(text))
		}
	}
	joined := strings.TrimSpace(strings.Join(fragments, ""))
	if joined == "" {
		return "", errors.New("gemini response without text output")
	}
	return joined, nil
}
