package quality

import (
	"errors"
	"testing"

	"github.com/femivideograph/script-ai-worker/internal/ai"
	"github.com/femivideograph/script-ai-worker/internal/domain"
)

func validShot() domain.Shot {
	return domain.Shot{
		Description:    "Close-up on Anna's hands around the cup",
		Size:           domain.ShotSizeCloseUp,
		Type:           domain.ShotTypeInsert,
		CameraMovement: domain.CameraMovementStatic,
		Equipment:      domain.EquipmentTripod,
	}
}

func TestValidateAcceptsCompleteBreakdown(t *testing.T) {
	validator := NewBreakdownValidator()
	breakdown := ai.SceneBreakdown{
		SceneLocation: "Coffee shop",
		ShotList:      []domain.Shot{validShot(), validShot()},
	}

	if err := validator.Validate(breakdown, "ANNA sips her coffee, lost in thought."); err != nil {
		t.Fatalf("expected valid breakdown, got %v", err)
	}
}

func TestValidateRejectsEmptyShotList(t *testing.T) {
	validator := NewBreakdownValidator()

	err := validator.Validate(ai.SceneBreakdown{SceneLocation: "Park"}, "scene text")
	if !errors.Is(err, ErrBreakdownRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Shot)
	}{
		{"description", func(s *domain.Shot) { s.Description = "  " }},
		{"size", func(s *domain.Shot) { s.Size = "" }},
		{"type", func(s *domain.Shot) { s.Type = "" }},
		{"camera_movement", func(s *domain.Shot) { s.CameraMovement = "" }},
		{"equipment", func(s *domain.Shot) { s.Equipment = "" }},
	}

	validator := NewBreakdownValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			shot := validShot()
			tc.mutate(&shot)
			breakdown := ai.SceneBreakdown{
				SceneLocation: "Coffee shop",
				ShotList:      []domain.Shot{validShot(), shot},
			}
			err := validator.Validate(breakdown, "scene text")
			if !errors.Is(err, ErrBreakdownRejected) {
				t.Fatalf("expected rejection for missing %s, got %v", tc.name, err)
			}
		})
	}
}

func TestValidateRejectsUnknownEnumValues(t *testing.T) {
	validator := NewBreakdownValidator()
	shot := validShot()
	shot.Size = "gigantic"

	err := validator.Validate(ai.SceneBreakdown{
		SceneLocation: "Park",
		ShotList:      []domain.Shot{shot},
	}, "scene text")
	if !errors.Is(err, ErrBreakdownRejected) {
		t.Fatalf("expected rejection for unknown size, got %v", err)
	}
}

func TestValidateRejectsSceneTextAsDescription(t *testing.T) {
	sceneText := "Anna walks through the park. Leaves crunch under her feet."
	validator := NewBreakdownValidator()
	shot := validShot()
	shot.Description = "  Anna walks  through the park. Leaves crunch under her feet. "

	err := validator.Validate(ai.SceneBreakdown{
		SceneLocation: "Park",
		ShotList:      []domain.Shot{shot},
	}, sceneText)
	if !errors.Is(err, ErrBreakdownRejected) {
		t.Fatalf("expected rejection for scene-sized description, got %v", err)
	}
}
