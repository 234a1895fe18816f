package scenes

import (
	"context"
	"errors"
	"testing"

	"github.com/femivideograph/script-ai-worker/internal/ai"
	"github.com/femivideograph/script-ai-worker/internal/cache"
	"github.com/femivideograph/script-ai-worker/internal/domain"
)

type fakePlanner struct {
	breakdown ai.SceneBreakdown
	err       error
	calls     int
}

func (f *fakePlanner) PlanShots(_ context.Context, _ ai.SceneRequest) (ai.SceneBreakdown, error) {
	f.calls++
	if f.err != nil {
		return ai.SceneBreakdown{}, f.err
	}
	return f.breakdown, nil
}

func completeBreakdown(location string) ai.SceneBreakdown {
	return ai.SceneBreakdown{
		SceneLocation: location,
		ShotList: []domain.Shot{
			{
				Description:    "Wide establishing shot of the kitchen",
				Size:           domain.ShotSizeWide,
				Type:           domain.ShotTypeMaster,
				CameraMovement: domain.CameraMovementStatic,
				Equipment:      domain.EquipmentTripod,
			},
			{
				Description:    "Close-up on the kettle starting to boil",
				Size:           domain.ShotSizeCloseUp,
				Type:           domain.ShotTypeInsert,
				CameraMovement: domain.CameraMovementStatic,
				Equipment:      domain.EquipmentTripod,
			},
		},
	}
}

func testScene() domain.Scene {
	return domain.Scene{
		Heading:       "INT. KITCHEN - DAY",
		RawText:       "INT. KITCHEN - DAY\n\nThe kettle boils over while ANNA reads.",
		SequenceIndex: 0,
	}
}

func TestProcessReturnsSuccessWithProviderLocation(t *testing.T) {
	planner := &fakePlanner{breakdown: completeBreakdown("Anna's kitchen")}
	processor := NewProcessor(ProcessorConfig{Planner: planner})

	outcome := processor.Process(context.Background(), testScene())
	if outcome.Failure != nil {
		t.Fatalf("unexpected failure: %+v", outcome.Failure)
	}
	if outcome.Success == nil {
		t.Fatal("expected a success outcome")
	}
	if outcome.Success.SceneLabel != "Anna's kitchen" {
		t.Fatalf("provider location should override heading, got %q", outcome.Success.SceneLabel)
	}
	if len(outcome.Success.Shots) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(outcome.Success.Shots))
	}
}

func TestProcessKeepsHeadingWhenLocationEmpty(t *testing.T) {
	planner := &fakePlanner{breakdown: completeBreakdown("   ")}
	processor := NewProcessor(ProcessorConfig{Planner: planner})

	outcome := processor.Process(context.Background(), testScene())
	if outcome.Success == nil {
		t.Fatalf("expected success, got %+v", outcome.Failure)
	}
	if outcome.Success.SceneLabel != "INT. KITCHEN - DAY" {
		t.Fatalf("expected chunker heading kept, got %q", outcome.Success.SceneLabel)
	}
}

func TestProcessIsolatesProviderErrors(t *testing.T) {
	planner := &fakePlanner{err: errors.New("gemini generate: 503 backend unavailable")}
	processor := NewProcessor(ProcessorConfig{Planner: planner})

	outcome := processor.Process(context.Background(), testScene())
	if outcome.Success != nil {
		t.Fatal("expected failure outcome")
	}
	if outcome.Failure == nil {
		t.Fatal("failure outcome missing")
	}
	if outcome.Failure.SceneLabel != "INT. KITCHEN - DAY" {
		t.Fatalf("failure should carry the scene label, got %q", outcome.Failure.SceneLabel)
	}
	if outcome.Failure.ErrorMessage == "" {
		t.Fatal("failure should carry the provider error message")
	}
}

func TestProcessRejectsBreakdownMissingRequiredShotField(t *testing.T) {
	breakdown := completeBreakdown("Kitchen")
	breakdown.ShotList[1].Equipment = ""
	planner := &fakePlanner{breakdown: breakdown}
	processor := NewProcessor(ProcessorConfig{Planner: planner})

	outcome := processor.Process(context.Background(), testScene())
	if outcome.Success != nil {
		t.Fatal("malformed shot must never surface as success")
	}
	if outcome.Failure == nil {
		t.Fatal("expected failure outcome for malformed breakdown")
	}
}

func TestProcessServesRepeatScenesFromCache(t *testing.T) {
	planner := &fakePlanner{breakdown: completeBreakdown("Kitchen")}
	processor := NewProcessor(ProcessorConfig{
		Planner:  planner,
		Cache:    cache.NewSceneCache(cache.Config{}),
		ModelRef: "gemini-1.5-flash",
	})

	first := processor.Process(context.Background(), testScene())
	second := processor.Process(context.Background(), testScene())
	if first.Success == nil || second.Success == nil {
		t.Fatal("expected both outcomes to succeed")
	}
	if planner.calls != 1 {
		t.Fatalf("expected one provider call with cache enabled, got %d", planner.calls)
	}
}

func TestProcessDoesNotCacheRejectedBreakdowns(t *testing.T) {
	breakdown := completeBreakdown("Kitchen")
	breakdown.ShotList = nil
	planner := &fakePlanner{breakdown: breakdown}
	processor := NewProcessor(ProcessorConfig{
		Planner:  planner,
		Cache:    cache.NewSceneCache(cache.Config{}),
		ModelRef: "gemini-1.5-flash",
	})

	processor.Process(context.Background(), testScene())
	processor.Process(context.Background(), testScene())
	if planner.calls != 2 {
		t.Fatalf("rejected breakdowns must not be cached, got %d calls", planner.calls)
	}
}
