package ai

import (
	"context"

	"github.com/femivideograph/script-ai-worker/internal/domain"
)

// SceneRequest carries one scene to the inference provider.
type SceneRequest struct {
	Heading string
	Text    string
}

// SceneBreakdown is the provider's structured reply. The response schema is
// advisory to the provider; required fields are re-checked downstream before
// a success outcome is built.
type SceneBreakdown struct {
	SceneLocation string        `json:"scene_location"`
	ShotList      []domain.Shot `json:"shot_list"`
}

// ShotPlanner is the inference collaborator boundary. Implementations make
// exactly one attempt; per-scene failures are isolated by the caller.
type ShotPlanner interface {
	PlanShots(ctx context.Context, request SceneRequest) (SceneBreakdown, error)
}

// PlannerFunc adapts a plain function to the ShotPlanner interface.
type PlannerFunc func(ctx context.Context, request SceneRequest) (SceneBreakdown, error)

func (f PlannerFunc) PlanShots(ctx context.Context, request SceneRequest) (SceneBreakdown, error) {
	return f(ctx, request)
}
