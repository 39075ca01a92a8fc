// Package params holds the adjustable launch settings and the typed input
// commands that mutate them.
package params

import (
	"math"
	"strconv"
	"strings"
)

type Field string

const (
	FieldAngle   Field = "angle"
	FieldForce   Field = "force"
	FieldWind    Field = "wind"
	FieldGravity Field = "gravity"
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldAngle, FieldForce, FieldWind, FieldGravity}

const (
	DefaultAngle = 45.0
	DefaultForce = 0.05
	DefaultWind  = 0.0
)

type Parameters struct {
	AngleDegrees float64
	Force        float64
	Wind         float64
	Gravity      GravityProfile
}

func Defaults() Parameters {
	return Parameters{
		AngleDegrees: DefaultAngle,
		Force:        DefaultForce,
		Wind:         DefaultWind,
		Gravity:      Earth,
	}
}

// GravitySetter receives the gravity scalar whenever the profile changes.
type GravitySetter interface {
	SetGravityY(g float64)
}

// LabelFunc receives the display text of a field after every change.
type LabelFunc func(field Field, text string)

// Store is the single writer-owned copy of the launch settings. It is not
// safe for concurrent use; the host serializes input handling with stepping.
type Store struct {
	p       Parameters
	gravity GravitySetter
	labels  []LabelFunc
}

// NewStore pushes the initial gravity profile to g when g is non-nil.
func NewStore(initial Parameters, g GravitySetter) *Store {
	s := &Store{p: initial, gravity: g}
	if g != nil {
		g.SetGravityY(initial.Gravity.Scalar())
	}
	return s
}

func (s *Store) OnChange(fn LabelFunc) { s.labels = append(s.labels, fn) }

func (s *Store) Snapshot() Parameters    { return s.p }
func (s *Store) Angle() float64          { return s.p.AngleDegrees }
func (s *Store) Force() float64          { return s.p.Force }
func (s *Store) Wind() float64           { return s.p.Wind }
func (s *Store) Gravity() GravityProfile { return s.p.Gravity }

func (s *Store) SetAngle(deg float64) {
	s.p.AngleDegrees = deg
	s.notify(FieldAngle, formatNumber(deg))
}

func (s *Store) SetForce(f float64) {
	s.p.Force = f
	s.notify(FieldForce, formatNumber(f))
}

func (s *Store) SetWind(w float64) {
	s.p.Wind = w
	s.notify(FieldWind, formatNumber(w))
}

func (s *Store) SetGravity(g GravityProfile) {
	s.p.Gravity = g
	if s.gravity != nil {
		s.gravity.SetGravityY(g.Scalar())
	}
	s.notify(FieldGravity, g.String())
}

// Label returns the current display text of a field.
func (s *Store) Label(f Field) string {
	switch f {
	case FieldAngle:
		return formatNumber(s.p.AngleDegrees)
	case FieldForce:
		return formatNumber(s.p.Force)
	case FieldWind:
		return formatNumber(s.p.Wind)
	case FieldGravity:
		return s.p.Gravity.String()
	}
	return ""
}

func (s *Store) notify(f Field, text string) {
	for _, fn := range s.labels {
		fn(f, text)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseNumber(field Field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ParseError{Field: field, Raw: raw, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Field: field, Raw: raw, Err: errNotFinite}
	}
	return v, nil
}
