package models

import "strings"

// AgeRating represents the maturity rating of a title.
// Ratings are ordered from least to most restrictive so they can be
// compared directly against a profile's ceiling.
type AgeRating int

const (
	RatingUnknown AgeRating = iota
	RatingG
	RatingPG
	Rating13Plus
	Rating16Plus
	Rating18Plus
)

// String returns the string representation of the age rating
func (r AgeRating) String() string {
	switch r {
	case RatingG:
		return "G"
	case RatingPG:
		return "PG"
	case Rating13Plus:
		return "13+"
	case Rating16Plus:
		return "16+"
	case Rating18Plus:
		return "18+"
	default:
		return "unknown"
	}
}

// ParseAgeRating converts an age rating string to an AgeRating enum.
// Unrecognized values map to RatingUnknown; callers that gate content
// must treat RatingUnknown as deny.
func ParseAgeRating(ratingStr string) AgeRating {
	switch strings.ToUpper(strings.TrimSpace(ratingStr)) {
	case "G":
		return RatingG
	case "PG":
		return RatingPG
	case "13+":
		return Rating13Plus
	case "16+":
		return Rating16Plus
	case "18+":
		return Rating18Plus
	default:
		return RatingUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (r AgeRating) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (r *AgeRating) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*r = ParseAgeRating(str)
	return nil
}
