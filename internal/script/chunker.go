package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/femivideograph/script-ai-worker/internal/domain"
)

const (
	maxHeadingLength      = 80
	longFirstLineCutoff   = 100
	headingEllipsisSuffix = "..."
)

var (
	sluglinePattern  = regexp.MustCompile(`(?m)^(INT\.|EXT\.)`)
	softMarkPattern  = regexp.MustCompile(`FADE IN:|SCENE \d+|INTERIOR|EXTERIOR`)
	embeddedHeading  = regexp.MustCompile(`(?m)(INT\.|EXT\.|INTERIOR|EXTERIOR|SCENE \d+).*`)
	paragraphDivider = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)
)

// Chunk partitions raw script text into ordered scenes. It is deterministic
// and side-effect-free; output order matches source order and fixes both
// processing order and result ordering.
//
// Split rules, first match wins:
//  1. lines starting with INT. or EXT. (case-sensitive) open a new scene;
//  2. FADE IN:, SCENE <n>, INTERIOR or EXTERIOR markers open a new scene;
//  3. blank-line paragraphs, when the text has more than one;
//  4. otherwise the whole text is a single scene.
func Chunk(text string) []domain.Scene {
	var segments []string
	switch {
	case sluglinePattern.MatchString(text):
		segments = splitBefore(text, sluglinePattern.FindAllStringIndex(text, -1))
	case softMarkPattern.MatchString(text):
		segments = splitBefore(text, softMarkPattern.FindAllStringIndex(text, -1))
	default:
		paragraphs := paragraphDivider.Split(text, -1)
		if countNonEmpty(paragraphs) > 1 {
			segments = paragraphs
		} else {
			segments = []string{text}
		}
	}

	scenes := make([]domain.Scene, 0, len(segments))
	for _, segment := range segments {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}
		index := len(scenes)
		scenes = append(scenes, domain.Scene{
			Heading:       deriveHeading(trimmed, index),
			RawText:       trimmed,
			SequenceIndex: index,
		})
	}
	return scenes
}

// splitBefore cuts text immediately before each match start. Text preceding
// the first match becomes its own segment.
func splitBefore(text string, matches [][]int) []string {
	segments := make([]string, 0, len(matches)+1)
	previous := 0
	for _, match := range matches {
		if match[0] > previous {
			segments = append(segments, text[previous:match[0]])
		}
		previous = match[0]
	}
	segments = append(segments, text[previous:])
	return segments
}

func deriveHeading(segment string, index int) string {
	firstLine := segment
	if newline := strings.IndexByte(segment, '\n'); newline >= 0 {
		firstLine = segment[:newline]
	}
	firstLine = strings.TrimSpace(firstLine)

	if len(firstLine) > longFirstLineCutoff {
		// The opening line is prose, not a slugline. Look for a heading
		// embedded somewhere in the segment before giving up.
		if match := embeddedHeading.FindString(segment); match != "" {
			return truncateHeading(strings.TrimSpace(match))
		}
		return fmt.Sprintf("Scene %d", index+1)
	}
	if firstLine == "" {
		return fmt.Sprintf("Scene %d", index+1)
	}
	return truncateHeading(firstLine)
}

func truncateHeading(heading string) string {
	if len(heading) <= maxHeadingLength {
		return heading
	}
	return heading[:maxHeadingLength-len(headingEllipsisSuffix)] + headingEllipsisSuffix
}

func countNonEmpty(segments []string) int {
	count := 0
	for _, segment := range segments {
		if strings.TrimSpace(segment) != "" {
			count++
		}
	}
	return count
}
