// Package emotion provides the core types for classified reflections.
package emotion

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Label is an emotion category returned by the classifier.
// The set is open: any string the service returns is a valid Label.
type Label string

const (
	Happy   Label = "Happy"
	Sad     Label = "Sad"
	Anxious Label = "Anxious"
	Angry   Label = "Angry"
	Excited Label = "Excited"
)

// Known lists the labels that have a dedicated palette.
var Known = []Label{Happy, Sad, Anxious, Angry, Excited}

// Result is the classification of a single reflection.
type Result struct {
	Emotion    Label   `json:"emotion" yaml:"emotion"`
	Confidence float64 `json:"confidence" yaml:"confidence"` // Conventionally in [0,1]
}

// ErrMalformed is returned by Decode when a required field is absent.
var ErrMalformed = errors.New("malformed analysis result")

// Decode parses a service response body into a Result.
// Both fields must be present; values are taken as-is, so an out-of-range
// confidence is kept.
func Decode(data []byte) (Result, error) {
	var raw struct {
		Emotion    *string  `json:"emotion"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{}, fmt.Errorf("unmarshaling result: %w", err)
	}
	if raw.Emotion == nil {
		return Result{}, fmt.Errorf("%w: missing emotion", ErrMalformed)
	}
	if raw.Confidence == nil {
		return Result{}, fmt.Errorf("%w: missing confidence", ErrMalformed)
	}
	return Result{Emotion: Label(*raw.Emotion), Confidence: *raw.Confidence}, nil
}

// Percent returns the confidence as a whole percentage, rounded to nearest.
// No clamping is done: 1.5 yields 150.
func (r Result) Percent() int {
	return Percent(r.Confidence)
}

// Percent converts a confidence score into a rounded percentage.
func Percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

// String renders the result as "Happy (87%)".
func (r Result) String() string {
	return fmt.Sprintf("%s (%d%%)", r.Emotion, r.Percent())
}

// Palette is the (text, background, border) color triple used to draw a label.
type Palette struct {
	Text       string
	Background string
	Border     string
}

// Neutral is the palette for labels without a dedicated entry.
var Neutral = Palette{Text: "#4b5563", Background: "#f9fafb", Border: "#e5e7eb"}

// ColorFor returns the palette for a label. Unknown labels get Neutral.
func ColorFor(l Label) Palette {
	switch l {
	case Happy:
		return Palette{Text: "#16a34a", Background: "#f0fdf4", Border: "#bbf7d0"}
	case Sad:
		return Palette{Text: "#2563eb", Background: "#eff6ff", Border: "#bfdbfe"}
	case Anxious:
		return Palette{Text: "#ea580c", Background: "#fff7ed", Border: "#fed7aa"}
	case Angry:
		return Palette{Text: "#dc2626", Background: "#fef2f2", Border: "#fecaca"}
	case Excited:
		return Palette{Text: "#9333ea", Background: "#faf5ff", Border: "#e9d5ff"}
	default:
		return Neutral
	}
}

// IsKnown reports whether the label has a dedicated palette.
func (l Label) IsKnown() bool {
	for _, k := range Known {
		if k == l {
			return true
		}
	}
	return false
}
