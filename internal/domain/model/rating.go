package model

import (
	"fmt"
	"strings"
)

// Rating is the qualitative assessment of how well one resume element
// matches a job requirement.
type Rating string

// Recognized ratings. Any other value is rejected at the decoding boundary.
const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

// ParseRating converts an external string into a Rating. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRating, s)
	}
	return r, nil
}

// Valid reports whether r is one of the recognized ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingLow, RatingMedium, RatingHigh:
		return true
	default:
		return false
	}
}

func (r Rating) String() string { return string(r) }

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRating, string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. JSON and YAML decoding
// both go through here, so malformed ratings never reach the scorer.
func (r *Rating) UnmarshalText(text []byte) error {
	parsed, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
