package models

import (
	"database/sql/driver"
	"fmt"
)

// The enum types are persisted as their string form so the database stays
// readable and the fail-closed Parse* semantics apply on the way back in.

func scanEnumString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("models: cannot scan %T into enum", value)
	}
}

// Scan implements sql.Scanner
func (r *AgeRating) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	*r = ParseAgeRating(s)
	return nil
}

// Value implements driver.Valuer
func (r AgeRating) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan implements sql.Scanner
func (b *AgeBand) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	*b = ParseAgeBand(s)
	return nil
}

// Value implements driver.Valuer
func (b AgeBand) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan implements sql.Scanner
func (t *ContentType) Scan(value interface{}) error {
	s, err := scanEnumString(value)
	if err != nil {
		return err
	}
	*t = ParseContentType(s)
	return nil
}

// Value implements driver.Valuer
func (t ContentType) Value() (driver.Value, error) {
	return t.String(), nil
}
