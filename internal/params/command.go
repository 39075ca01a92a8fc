package params

import "math"

// Command is a UI input event addressed to the store. Raw values are the
// untouched control text; parsing happens in Apply.
type Command interface {
	Field() Field
	apply(s *Store) error
}

// AngleInput keeps only the integer part of the entered number.
type AngleInput struct{ Raw string }

// ForceInput rejects negative magnitudes.
type ForceInput struct{ Raw string }

type WindInput struct{ Raw string }

// GravityInput carries the selector value. Names other than earth, moon and
// mars leave gravity untouched.
type GravityInput struct{ Name string }

func (AngleInput) Field() Field   { return FieldAngle }
func (ForceInput) Field() Field   { return FieldForce }
func (WindInput) Field() Field    { return FieldWind }
func (GravityInput) Field() Field { return FieldGravity }

func (c AngleInput) apply(s *Store) error {
	v, err := parseNumber(FieldAngle, c.Raw)
	if err != nil {
		return err
	}
	s.SetAngle(math.Trunc(v))
	return nil
}

func (c ForceInput) apply(s *Store) error {
	v, err := parseNumber(FieldForce, c.Raw)
	if err != nil {
		return err
	}
	if v < 0 {
		return &ParseError{Field: FieldForce, Raw: c.Raw, Err: errNegative}
	}
	if v == 0 {
		// drop the sign of "-0"
		v = 0
	}
	s.SetForce(v)
	return nil
}

func (c WindInput) apply(s *Store) error {
	v, err := parseNumber(FieldWind, c.Raw)
	if err != nil {
		return err
	}
	s.SetWind(v)
	return nil
}

func (c GravityInput) apply(s *Store) error {
	g, ok := ParseGravity(c.Name)
	if !ok {
		s.notify(FieldGravity, c.Name)
		return nil
	}
	s.SetGravity(g)
	return nil
}

// Apply runs cmd against the store. A failed parse returns a *ParseError
// matching ErrParse and leaves every field unchanged.
func (s *Store) Apply(cmd Command) error {
	return cmd.apply(s)
}
