package matching

import (
	"fmt"
	"sort"
	"strings"
)

const (
	MentorTopK = 5
	DoubtTopK  = 3
)

// Pooling decides how a profile's skill embeddings collapse into a score.
type Pooling string

const (
	// PoolMean compares against the element-wise mean of the skill vectors.
	PoolMean Pooling = "mean"
	// PoolMax takes the best similarity over the individual skill vectors.
	PoolMax Pooling = "max"
	// PoolFirst uses only the first stored skill vector. Kept so rankings can
	// be compared with the legacy behavior.
	PoolFirst Pooling = "first"
)

func ParsePooling(s string) (Pooling, error) {
	switch p := Pooling(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PoolMean, nil
	case PoolMean, PoolMax, PoolFirst:
		return p, nil
	default:
		return "", fmt.Errorf("matching: unknown pooling %q", s)
	}
}

type SkillVector struct {
	Name      string
	Embedding []float32
}

// Candidate is one profile with its skill vectors, in store order.
type Candidate struct {
	ID     string
	Skills []SkillVector
}

func (c Candidate) SkillNames() []string {
	out := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		out = append(out, s.Name)
	}
	return out
}

type Scored struct {
	Candidate
	Score float64
}

type Ranking struct {
	Results []Scored
	// Skipped counts candidates that had skills but no vector comparable
	// with the query (dimension mismatch).
	Skipped int
}

type Options struct {
	TopK    int // <= 0 keeps every result
	Pooling Pooling
}

// QueryVector builds the requester-side vector from their own skills. Max
// pooling has no single vector, so it falls back to the mean.
func QueryVector(skills []SkillVector, p Pooling) []float32 {
	if len(skills) == 0 {
		return nil
	}
	if p == PoolFirst {
		return skills[0].Embedding
	}
	vecs := make([][]float32, 0, len(skills))
	for _, s := range skills {
		vecs = append(vecs, s.Embedding)
	}
	return MeanVector(vecs)
}

// Score compares query with a candidate. ok is false when the candidate has
// no skill vector of the query's dimension.
func Score(query []float32, c Candidate, p Pooling) (score float64, ok bool) {
	if len(c.Skills) == 0 || len(query) == 0 {
		return 0, false
	}

	switch p {
	case PoolFirst:
		s, err := CosineSimilarity(query, c.Skills[0].Embedding)
		if err != nil {
			return 0, false
		}
		return s, true

	case PoolMax:
		best, found := 0.0, false
		for _, sk := range c.Skills {
			s, err := CosineSimilarity(query, sk.Embedding)
			if err != nil {
				continue
			}
			if !found || s > best {
				best, found = s, true
			}
		}
		return best, found

	default:
		vecs := make([][]float32, 0, len(c.Skills))
		for _, sk := range c.Skills {
			if len(sk.Embedding) == len(query) {
				vecs = append(vecs, sk.Embedding)
			}
		}
		if len(vecs) == 0 {
			return 0, false
		}
		s, err := CosineSimilarity(query, MeanVector(vecs))
		if err != nil {
			return 0, false
		}
		return s, true
	}
}

// Rank scores every candidate that has skills, sorts by score descending
// (stable, so ties keep input order) and keeps the first TopK unique IDs.
// Candidates without skills are not part of the result at all.
func Rank(query []float32, candidates []Candidate, opts Options) Ranking {
	var r Ranking
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if len(c.Skills) == 0 {
			continue
		}
		s, ok := Score(query, c, opts.Pooling)
		if !ok {
			r.Skipped++
			continue
		}
		scored = append(scored, Scored{Candidate: c, Score: s})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	seen := make(map[string]struct{}, len(scored))
	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if opts.TopK > 0 && len(out) >= opts.TopK {
			break
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	r.Results = out
	return r
}
