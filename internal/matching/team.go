package matching

import "strings"

const (
	MinTeamSize = 3
	MaxTeamSize = 5
)

func ValidTeamSize(n int) bool {
	return n >= MinTeamSize && n <= MaxTeamSize
}

// AssembleTeam walks ranked (highest score first) and accepts a candidate
// when the team is empty or the candidate adds a skill nobody accepted so
// far covers. If the diversity pass leaves seats open, they are filled with
// the best remaining candidates regardless of skills. The result never holds
// more than size members.
func AssembleTeam(ranked []Scored, size int) []Scored {
	if size <= 0 || len(ranked) == 0 {
		return nil
	}

	team := make([]Scored, 0, size)
	picked := make(map[string]struct{}, size)
	covered := make(map[string]struct{})

	for _, c := range ranked {
		if len(team) >= size {
			break
		}
		if _, dup := picked[c.ID]; dup {
			continue
		}
		if len(team) > 0 && !addsSkill(c.Candidate, covered) {
			continue
		}
		team = append(team, c)
		picked[c.ID] = struct{}{}
		for _, s := range c.Skills {
			covered[normalizeSkill(s.Name)] = struct{}{}
		}
	}

	for _, c := range ranked {
		if len(team) >= size {
			break
		}
		if _, dup := picked[c.ID]; dup {
			continue
		}
		team = append(team, c)
		picked[c.ID] = struct{}{}
	}
	return team
}

func addsSkill(c Candidate, covered map[string]struct{}) bool {
	for _, s := range c.Skills {
		if _, ok := covered[normalizeSkill(s.Name)]; !ok {
			return true
		}
	}
	return false
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
