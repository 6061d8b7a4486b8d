package domain

// Role represents a player's role in a round
type Role string

const (
	RoleLiar    Role = "LIAR"
	RoleSpy     Role = "SPY"
	RoleCitizen Role = "CITIZEN"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsLiar returns true if this role is the liar
func (r Role) IsLiar() bool {
	return r == RoleLiar
}

// OnLiarSide returns true for roles that win with the liar.
// The spy knows the secret word but is on the liar's team.
func (r Role) OnLiarSide() bool {
	return r == RoleLiar || r == RoleSpy
}

// Side represents the winning side of a round
type Side string

const (
	SideCitizens Side = "CITIZENS"
	SideLiar     Side = "LIAR"
)
