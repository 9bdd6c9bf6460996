package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is the drawing style forwarded to the image service.
type Style string

const (
	StyleSketch     Style = "sketch"
	StyleLineArt    Style = "line_art"
	StyleMinimalist Style = "minimalist"
	StyleHandDrawn  Style = "hand_drawn"
)

// Styles lists the selectable styles in form order.
var Styles = []Style{StyleSketch, StyleLineArt, StyleMinimalist, StyleHandDrawn}

// Orientation is the optional canvas orientation. The empty value means the
// field is not sent to the image service.
type Orientation string

const (
	OrientationNone      Orientation = ""
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
	OrientationSquare    Orientation = "square"
)

// Orientations lists the selectable orientations in form order.
var Orientations = []Orientation{OrientationLandscape, OrientationPortrait, OrientationSquare}

var titleCaser = cases.Title(language.English)

// Label renders the style the way the form shows it, e.g. "Line Art".
func (s Style) Label() string {
	return humanize(string(s))
}

// Label renders the orientation for the form.
func (o Orientation) Label() string {
	return humanize(string(o))
}

func humanize(v string) string {
	return titleCaser.String(strings.ReplaceAll(v, "_", " "))
}

// ParseStyle accepts either the tag ("line_art") or the label ("Line Art").
// An empty value selects the first style, mirroring the form default.
func ParseStyle(raw string) (Style, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StyleSketch, nil
	}
	for _, s := range Styles {
		if strings.EqualFold(raw, string(s)) || strings.EqualFold(raw, s.Label()) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStyle, raw)
}

// ParseOrientation accepts a tag or label; empty means no orientation.
func ParseOrientation(raw string) (Orientation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return OrientationNone, nil
	}
	for _, o := range Orientations {
		if strings.EqualFold(raw, string(o)) || strings.EqualFold(raw, o.Label()) {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrientation, raw)
}

// UserRequest is the form input captured for a single generate action.
type UserRequest struct {
	Description string
	Style       Style
	Orientation Orientation
}

// HasDescription reports whether the description carries any non-space text.
func (r UserRequest) HasDescription() bool {
	return strings.TrimSpace(r.Description) != ""
}

// EnhancedPrompt is the text sent to the image service: either the text
// service output or the untouched description.
type EnhancedPrompt string
