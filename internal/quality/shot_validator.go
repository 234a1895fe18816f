package quality

import (
	"errors"
	"fmt"
	"strings"

	"github.com/femivideograph/script-ai-worker/internal/ai"
)

var ErrBreakdownRejected = errors.New("breakdown failed validation")

// BreakdownValidator re-checks the inference reply before it can become a
// success outcome. The response schema is only advisory to the provider, so
// every required shot field and enum value is verified here. One bad shot
// rejects the whole scene; malformed shots are never silently dropped.
type BreakdownValidator struct{}

func NewBreakdownValidator() *BreakdownValidator {
	return &BreakdownValidator{}
}

func (v *BreakdownValidator) Validate(breakdown ai.SceneBreakdown, sceneText string) error {
	if len(breakdown.ShotList) == 0 {
		return fmt.Errorf("%w: empty shot list", ErrBreakdownRejected)
	}

	normalizedScene := normalize(sceneText)
	for i, shot := range breakdown.ShotList {
		description := strings.TrimSpace(shot.Description)
		if description == "" {
			return fmt.Errorf("%w: shot %d missing description", ErrBreakdownRejected, i+1)
		}
		if normalize(description) == normalizedScene {
			return fmt.Errorf("%w: shot %d restates the whole scene", ErrBreakdownRejected, i+1)
		}
		if shot.Size == "" {
			return fmt.Errorf("%w: shot %d missing size", ErrBreakdownRejected, i+1)
		}
		if !shot.Size.Valid() {
			return fmt.Errorf("%w: shot %d has unknown size %q", ErrBreakdownRejected, i+1, shot.Size)
		}
		if shot.Type == "" {
			return fmt.Errorf("%w: shot %d missing type", ErrBreakdownRejected, i+1)
		}
		if !shot.Type.Valid() {
			return fmt.Errorf("%w: shot %d has unknown type %q", ErrBreakdownRejected, i+1, shot.Type)
		}
		if shot.CameraMovement == "" {
			return fmt.Errorf("%w: shot %d missing camera movement", ErrBreakdownRejected, i+1)
		}
		if !shot.CameraMovement.Valid() {
			return fmt.Errorf("%w: shot %d has unknown camera movement %q", ErrBreakdownRejected, i+1, shot.CameraMovement)
		}
		if shot.Equipment == "" {
			return fmt.Errorf("%w: shot %d missing equipment", ErrBreakdownRejected, i+1)
		}
		if !shot.Equipment.Valid() {
			return fmt.Errorf("%w: shot %d has unknown equipment %q", ErrBreakdownRejected, i+1, shot.Equipment)
		}
	}
	return nil
}

func normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
