package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DesignType is the garment category a design produces.
type DesignType string

const (
	DesignTypeSweater DesignType = "Sweater"
)

// ParseDesignType maps a stored token onto the closed set of design types.
func ParseDesignType(s string) (DesignType, error) {
	switch DesignType(s) {
	case DesignTypeSweater:
		return DesignType(s), nil
	default:
		return "", &MappingError{Field: "designType", Reason: "unknown value " + s}
	}
}

func (t *DesignType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDesignType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// PatternType tells clients how to render the pattern body.
type PatternType string

const (
	PatternTypeText PatternType = "Text"
)

// ParsePatternType maps a stored token onto the closed set of pattern types.
func ParsePatternType(s string) (PatternType, error) {
	switch PatternType(s) {
	case PatternTypeText:
		return PatternType(s), nil
	default:
		return "", &MappingError{Field: "patternType", Reason: "unknown value " + s}
	}
}

func (t *PatternType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePatternType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Design is one catalog entry: a knitting pattern for a garment together
// with its measurements, materials and price.
// Nil Needle, Yarn and Extra mean "unspecified" and are encoded as JSON null.
type Design struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	DesignType  DesignType  `json:"designType"`
	PatternType PatternType `json:"patternType"`
	Gauge       Gauge       `json:"gauge"`
	Needle      *string     `json:"needle"`
	Yarn        *string     `json:"yarn"`
	Extra       *string     `json:"extra"`
	Price       Price       `json:"price"`
	Size        Size        `json:"size"`
	Pattern     Pattern     `json:"pattern"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// UnmarshalJSON decodes the wire shape produced by json.Marshal. Nested
// value objects are validated by their own decoders; keys that are missing
// altogether are reported as a MappingError. A present but empty name is a
// ValidationError, the same as for a stored record.
func (d *Design) UnmarshalJSON(data []byte) error {
	type wire Design
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var name struct {
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch {
	case w.ID == uuid.Nil:
		return &MappingError{Field: "id", Reason: "missing"}
	case name.Name == nil:
		return &MappingError{Field: "name", Reason: "missing"}
	case w.Name == "":
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	case w.DesignType == "":
		return &MappingError{Field: "designType", Reason: "missing"}
	case w.PatternType == "":
		return &MappingError{Field: "patternType", Reason: "missing"}
	case w.Gauge == Gauge{}:
		return &MappingError{Field: "gauge", Reason: "missing"}
	case w.Pattern == Pattern{}:
		return &MappingError{Field: "pattern", Reason: "missing"}
	case w.CreatedAt.IsZero():
		return &MappingError{Field: "createdAt", Reason: "missing"}
	}

	*d = Design(w)
	return nil
}
