package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// Gauge is the knitting density of a standard swatch.
type Gauge struct {
	stitches float64
	rows     float64
}

// NewGauge builds a Gauge. Both components must be strictly positive.
func NewGauge(stitches, rows float64) (Gauge, error) {
	if !positive(stitches) {
		return Gauge{}, &ValidationError{Field: "gauge.stitches", Reason: "must be positive"}
	}
	if !positive(rows) {
		return Gauge{}, &ValidationError{Field: "gauge.rows", Reason: "must be positive"}
	}
	return Gauge{stitches: stitches, rows: rows}, nil
}

// positive reports whether v is a finite number above zero. NaN fails.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func (g Gauge) Stitches() float64 { return g.stitches }
func (g Gauge) Rows() float64     { return g.rows }

type gaugeJSON struct {
	Stitches float64 `json:"stitches"`
	Rows     float64 `json:"rows"`
}

func (g Gauge) MarshalJSON() ([]byte, error) {
	return json.Marshal(gaugeJSON{Stitches: g.stitches, Rows: g.rows})
}

func (g *Gauge) UnmarshalJSON(data []byte) error {
	var raw gaugeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewGauge(raw.Stitches, raw.Rows)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Length is a single garment measurement. The zero value is an absent
// measurement, which is distinct from any positive length.
type Length struct {
	value float64
	set   bool
}

// NewLength builds a Length from a nullable column value.
func NewLength(v *float64) (Length, error) {
	if v == nil {
		return Length{}, nil
	}
	if !positive(*v) {
		return Length{}, &ValidationError{Field: "length", Reason: "must be positive"}
	}
	return Length{value: *v, set: true}, nil
}

// Value returns the measurement and whether it is present.
func (l Length) Value() (float64, bool) { return l.value, l.set }

type lengthJSON struct {
	Value *float64 `json:"value"`
}

func (l Length) MarshalJSON() ([]byte, error) {
	var raw lengthJSON
	if l.set {
		v := l.value
		raw.Value = &v
	}
	return json.Marshal(raw)
}

func (l *Length) UnmarshalJSON(data []byte) error {
	var raw lengthJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewLength(raw.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Size groups the five measurements needed to render a garment.
type Size struct {
	totalLength   Length
	sleeveLength  Length
	shoulderWidth Length
	bottomWidth   Length
	armholeDepth  Length
}

// NewSize builds a Size; each component may be nil independently.
func NewSize(totalLength, sleeveLength, shoulderWidth, bottomWidth, armholeDepth *float64) (Size, error) {
	var (
		s   Size
		err error
	)
	if s.totalLength, err = sizeComponent("size.totalLength", totalLength); err != nil {
		return Size{}, err
	}
	if s.sleeveLength, err = sizeComponent("size.sleeveLength", sleeveLength); err != nil {
		return Size{}, err
	}
	if s.shoulderWidth, err = sizeComponent("size.shoulderWidth", shoulderWidth); err != nil {
		return Size{}, err
	}
	if s.bottomWidth, err = sizeComponent("size.bottomWidth", bottomWidth); err != nil {
		return Size{}, err
	}
	if s.armholeDepth, err = sizeComponent("size.armholeDepth", armholeDepth); err != nil {
		return Size{}, err
	}
	return s, nil
}

func sizeComponent(field string, v *float64) (Length, error) {
	l, err := NewLength(v)
	if err != nil {
		return Length{}, &ValidationError{Field: field, Reason: "must be positive"}
	}
	return l, nil
}

func (s Size) TotalLength() Length   { return s.totalLength }
func (s Size) SleeveLength() Length  { return s.sleeveLength }
func (s Size) ShoulderWidth() Length { return s.shoulderWidth }
func (s Size) BottomWidth() Length   { return s.bottomWidth }
func (s Size) ArmholeDepth() Length  { return s.armholeDepth }

type sizeJSON struct {
	TotalLength   Length `json:"totalLength"`
	SleeveLength  Length `json:"sleeveLength"`
	ShoulderWidth Length `json:"shoulderWidth"`
	BottomWidth   Length `json:"bottomWidth"`
	ArmholeDepth  Length `json:"armholeDepth"`
}

func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal(sizeJSON{
		TotalLength:   s.totalLength,
		SleeveLength:  s.sleeveLength,
		ShoulderWidth: s.shoulderWidth,
		BottomWidth:   s.bottomWidth,
		ArmholeDepth:  s.armholeDepth,
	})
}

func (s *Size) UnmarshalJSON(data []byte) error {
	var raw sizeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Size{
		totalLength:   raw.TotalLength,
		sleeveLength:  raw.SleeveLength,
		shoulderWidth: raw.ShoulderWidth,
		bottomWidth:   raw.BottomWidth,
		armholeDepth:  raw.ArmholeDepth,
	}
	return nil
}

// Price is the amount charged for a design. Zero means the pattern is free.
type Price struct {
	value int
}

func NewPrice(v int) (Price, error) {
	if v < 0 {
		return Price{}, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return Price{value: v}, nil
}

func (p Price) Value() int { return p.value }

type priceJSON struct {
	Value int `json:"value"`
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(priceJSON{Value: p.value})
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw priceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewPrice(raw.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Pattern is the instruction body of a design, usually markdown.
type Pattern struct {
	value string
}

func NewPattern(v string) (Pattern, error) {
	if strings.TrimSpace(v) == "" {
		return Pattern{}, &ValidationError{Field: "pattern", Reason: "must not be blank"}
	}
	return Pattern{value: v}, nil
}

func (p Pattern) Value() string { return p.value }

type patternJSON struct {
	Value string `json:"value"`
}

func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(patternJSON{Value: p.value})
}

func (p *Pattern) UnmarshalJSON(data []byte) error {
	var raw patternJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewPattern(raw.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
