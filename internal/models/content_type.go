package models

import "strings"

// ContentType distinguishes movies from series in the catalog.
type ContentType int

const (
	TypeUnknown ContentType = iota
	TypeMovie
	TypeSeries
)

// String returns the string representation of the content type
func (t ContentType) String() string {
	switch t {
	case TypeMovie:
		return "Movie"
	case TypeSeries:
		return "Series"
	default:
		return "unknown"
	}
}

// ParseContentType converts a content type string to a ContentType enum
func ParseContentType(typeStr string) ContentType {
	switch strings.ToLower(strings.TrimSpace(typeStr)) {
	case "movie":
		return TypeMovie
	case "series":
		return TypeSeries
	default:
		return TypeUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (t ContentType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (t *ContentType) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*t = ParseContentType(str)
	return nil
}
