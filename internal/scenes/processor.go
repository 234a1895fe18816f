package scenes

import (
	"context"
	"log"
	"strings"

	"github.com/femivideograph/script-ai-worker/internal/ai"
	"github.com/femivideograph/script-ai-worker/internal/cache"
	"github.com/femivideograph/script-ai-worker/internal/domain"
	"github.com/femivideograph/script-ai-worker/internal/quality"
)

// Outcome is the per-scene result: exactly one of Success or Failure is set.
type Outcome struct {
	Success *domain.SceneSuccess
	Failure *domain.SceneFailure
}

// Processor turns one scene into a shot list through the inference
// collaborator. A provider or validation error is isolated into a Failure
// outcome; it never aborts the surrounding job.
type Processor struct {
	planner   ai.ShotPlanner
	validator *quality.BreakdownValidator
	cache     *cache.SceneCache
	modelRef  string
	logger    *log.Logger
}

type ProcessorConfig struct {
	Planner   ai.ShotPlanner
	Validator *quality.BreakdownValidator
	Cache     *cache.SceneCache
	ModelRef  string
	Logger    *log.Logger
}

func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.Validator == nil {
		cfg.Validator = quality.NewBreakdownValidator()
	}
	return &Processor{
		planner:   cfg.Planner,
		validator: cfg.Validator,
		cache:     cfg.Cache,
		modelRef:  cfg.ModelRef,
		logger:    cfg.Logger,
	}
}

func (p *Processor) Process(ctx context.Context, scene domain.Scene) Outcome {
	breakdown, cached, err := p.breakdownFor(ctx, scene)
	if err != nil {
		if p.logger != nil {
			p.logger.Printf("scene processing failed scene=%q err=%v", scene.Heading, err)
		}
		return Outcome{Failure: &domain.SceneFailure{
			SceneLabel:   scene.Heading,
			ErrorMessage: err.Error(),
		}}
	}

	label := scene.Heading
	if location := strings.TrimSpace(breakdown.SceneLocation); location != "" {
		label = location
	}

	if p.logger != nil && cached {
		p.logger.Printf("scene breakdown served from cache scene=%q", scene.Heading)
	}
	return Outcome{Success: &domain.SceneSuccess{
		SceneLabel: label,
		Shots:      breakdown.ShotList,
	}}
}

func (p *Processor) breakdownFor(ctx context.Context, scene domain.Scene) (ai.SceneBreakdown, bool, error) {
	var signature string
	if p.cache != nil {
		signature = p.cache.BuildSignature(p.modelRef, scene.RawText)
		if entry, ok := p.cache.Get(signature); ok {
			return entry.Breakdown, true, nil
		}
	}

	breakdown, err := p.planner.PlanShots(ctx, ai.SceneRequest{
		Heading: scene.Heading,
		Text:    scene.RawText,
	})
	if err != nil {
		return ai.SceneBreakdown{}, false, err
	}
	if err := p.validator.Validate(breakdown, scene.RawText); err != nil {
		return ai.SceneBreakdown{}, false, err
	}

	if p.cache != nil {
		p.cache.Set(signature, cache.Entry{Breakdown: breakdown, ModelRef: p.modelRef})
	}
	return breakdown, false, nil
}
