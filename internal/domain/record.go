package domain

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// DesignRecord is a design row as it comes out of storage. Every column is
// a pointer so that NULLs survive the scan and can be checked here.
type DesignRecord struct {
	ID            *string  `validate:"required"`
	Name          *string  `validate:"required"`
	DesignType    *string  `validate:"required"`
	PatternType   *string  `validate:"required"`
	Stitches      *float64 `validate:"required"`
	Rows          *float64 `validate:"required"`
	TotalLength   *float64
	SleeveLength  *float64
	ShoulderWidth *float64
	BottomWidth   *float64
	ArmholeDepth  *float64
	Needle        *string
	Yarn          *string
	Extra         *string
	Price         *int       `validate:"required"`
	Pattern       *string    `validate:"required"`
	CreatedAt     *time.Time `validate:"required"`
}

// ToDesign converts a stored record into the domain aggregate.
// Missing required columns and unknown tokens yield a *MappingError;
// values that break a value-object invariant yield a *ValidationError.
func (r DesignRecord) ToDesign() (Design, error) {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Design{}, &MappingError{Field: verrs[0].Field(), Reason: "missing"}
		}
		return Design{}, err
	}

	id, err := uuid.Parse(*r.ID)
	if err != nil {
		return Design{}, &MappingError{Field: "ID", Reason: "malformed uuid"}
	}
	if *r.Name == "" {
		return Design{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	designType, err := ParseDesignType(*r.DesignType)
	if err != nil {
		return Design{}, err
	}
	patternType, err := ParsePatternType(*r.PatternType)
	if err != nil {
		return Design{}, err
	}
	gauge, err := NewGauge(*r.Stitches, *r.Rows)
	if err != nil {
		return Design{}, err
	}
	size, err := NewSize(r.TotalLength, r.SleeveLength, r.ShoulderWidth, r.BottomWidth, r.ArmholeDepth)
	if err != nil {
		return Design{}, err
	}
	price, err := NewPrice(*r.Price)
	if err != nil {
		return Design{}, err
	}
	pattern, err := NewPattern(*r.Pattern)
	if err != nil {
		return Design{}, err
	}

	return Design{
		ID:          id,
		Name:        *r.Name,
		DesignType:  designType,
		PatternType: patternType,
		Gauge:       gauge,
		Needle:      r.Needle,
		Yarn:        r.Yarn,
		Extra:       r.Extra,
		Price:       price,
		Size:        size,
		Pattern:     pattern,
		CreatedAt:   *r.CreatedAt,
	}, nil
}
