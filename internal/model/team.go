package model

import (
	"fmt"
	"strings"
)

// Team identifies an IFF side.
type Team uint8

const (
	TeamFriendly Team = iota
	TeamHostile
	TeamNeutral
	TeamUnknown
	TeamTraitor
	MaxTeams
)

// String returns human-readable team name
func (t Team) String() string {
	switch t {
	case TeamFriendly:
		return "friendly"
	case TeamHostile:
		return "hostile"
	case TeamNeutral:
		return "neutral"
	case TeamUnknown:
		return "unknown"
	case TeamTraitor:
		return "traitor"
	default:
		return fmt.Sprintf("team(%d)", uint8(t))
	}
}

// Mask returns the bit for this team in a TeamMask.
func (t Team) Mask() TeamMask {
	return TeamMask(1) << t
}

// ParseTeam converts a name into a Team.
func ParseTeam(s string) (Team, error) {
	for t := TeamFriendly; t < MaxTeams; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return TeamUnknown, fmt.Errorf("unknown team %q", s)
}

// TeamMask is a set of teams.
type TeamMask uint32

// AllTeams includes every team.
const AllTeams TeamMask = (1 << MaxTeams) - 1

// Has reports whether t is in the mask.
func (m TeamMask) Has(t Team) bool {
	return m&t.Mask() != 0
}

// IFF holds who attacks whom.
type IFF struct {
	attacks [MaxTeams]TeamMask
}

// DefaultIFF: friendly and hostile attack each other, traitors attack everyone,
// everybody attacks traitors.
func DefaultIFF() *IFF {
	iff := &IFF{}
	iff.SetAttacks(TeamFriendly, TeamHostile.Mask()|TeamTraitor.Mask())
	iff.SetAttacks(TeamHostile, TeamFriendly.Mask()|TeamTraitor.Mask())
	iff.SetAttacks(TeamTraitor, AllTeams)
	iff.SetAttacks(TeamUnknown, TeamTraitor.Mask())
	iff.SetAttacks(TeamNeutral, TeamTraitor.Mask())
	return iff
}

// SetAttacks sets the teams t treats as enemies.
func (i *IFF) SetAttacks(t Team, mask TeamMask) {
	if t < MaxTeams {
		i.attacks[t] = mask
	}
}

// EnemyMask returns the teams t attacks.
func (i *IFF) EnemyMask(t Team) TeamMask {
	if t >= MaxTeams {
		return 0
	}
	return i.attacks[t]
}

// Hostile reports whether a attacks b.
func (i *IFF) Hostile(a, b Team) bool {
	return i.EnemyMask(a).Has(b)
}
