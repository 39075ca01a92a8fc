package params

import "strings"

// GravityProfile selects the world's vertical gravity scalar.
type GravityProfile int

const (
	Earth GravityProfile = iota
	Moon
	Mars
)

var gravityProfiles = [...]struct {
	name   string
	scalar float64
}{
	Earth: {"earth", 1.0},
	Moon:  {"moon", 0.16},
	Mars:  {"mars", 0.38},
}

func (g GravityProfile) String() string {
	if g < 0 || int(g) >= len(gravityProfiles) {
		return "unknown"
	}
	return gravityProfiles[g].name
}

// Scalar is the value handed to the world's SetGravityY.
func (g GravityProfile) Scalar() float64 {
	if g < 0 || int(g) >= len(gravityProfiles) {
		return gravityProfiles[Earth].scalar
	}
	return gravityProfiles[g].scalar
}

// ParseGravity matches the selector values "earth", "moon" and "mars"
// case-insensitively. ok is false for anything else.
func ParseGravity(name string) (g GravityProfile, ok bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, p := range gravityProfiles {
		if p.name == name {
			return GravityProfile(i), true
		}
	}
	return Earth, false
}

// GravityNames lists the selector values in declaration order.
func GravityNames() []string {
	names := make([]string, len(gravityProfiles))
	for i, p := range gravityProfiles {
		names[i] = p.name
	}
	return names
}

// Next cycles earth → moon → mars → earth.
func (g GravityProfile) Next() GravityProfile {
	return GravityProfile((int(g) + 1) % len(gravityProfiles))
}
