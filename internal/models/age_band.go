package models

import "strings"

// AgeBand represents the age bracket of a profile, ordered youngest to oldest.
type AgeBand int

const (
	BandUnknown AgeBand = iota
	BandUnder13
	Band13To17
	Band18To24
	Band25To34
	Band35To49
	Band50Plus
)

// String returns the string representation of the age band
func (b AgeBand) String() string {
	switch b {
	case BandUnder13:
		return "<13"
	case Band13To17:
		return "13-17"
	case Band18To24:
		return "18-24"
	case Band25To34:
		return "25-34"
	case Band35To49:
		return "35-49"
	case Band50Plus:
		return "50+"
	default:
		return "unknown"
	}
}

// ParseAgeBand converts an age band string to an AgeBand enum.
// Unrecognized values map to BandUnknown; the eligibility filter fails
// closed on unknown bands.
func ParseAgeBand(bandStr string) AgeBand {
	switch strings.TrimSpace(bandStr) {
	case "<13":
		return BandUnder13
	case "13-17":
		return Band13To17
	case "18-24":
		return Band18To24
	case "25-34":
		return Band25To34
	case "35-49":
		return Band35To49
	case "50+":
		return Band50Plus
	default:
		return BandUnknown
	}
}

// Adult reports whether the band denotes a viewer of at least 18 years.
func (b AgeBand) Adult() bool {
	return b >= Band18To24
}

// MarshalJSON implements json.Marshaler interface
func (b AgeBand) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (b *AgeBand) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*b = ParseAgeBand(str)
	return nil
}
