package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
)

// Candidate is one entry of the pool handed to the model. Profile is
// serialized as-is into the prompt.
type Candidate struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Profile interface{} `json:"profile"`
}

type RubricCategory struct {
	Name     string `json:"name"`
	Weight   int    `json:"weight"`
	Guidance string `json:"guidance"`
}

// Rubric weights add up to 100. Matches scoring below Threshold are dropped.
type Rubric struct {
	Subject    string
	Categories []RubricCategory
	Threshold  float64
	// EmptyOnFallback returns no candidates instead of the unscored pool
	// when the model cannot be used.
	EmptyOnFallback bool
}

type Match struct {
	CandidateID string  `json:"candidateId"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

type MatchOutcome struct {
	Matches  []Match `json:"matches"`
	Fallback bool    `json:"fallback"`
}

type modelReply struct {
	Matches []struct {
		ID     string  `json:"id"`
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	} `json:"matches"`
}

const matchSystemPrompt = `You are a matching engine for a wellness coaching platform.
Score every candidate against the requester using only the rubric provided.
Scores range from 0 to 100. Only use candidate ids that appear in the pool.
Reply with a single JSON object and nothing else.`

// Matcher ranks a candidate pool with one model call. It never fails: any
// provider or parsing problem produces a fallback outcome.
type Matcher struct {
	llm Completer
}

func NewMatcher(llm Completer) *Matcher {
	return &Matcher{llm: llm}
}

func (m *Matcher) Match(ctx context.Context, requester interface{}, pool []Candidate, rubric Rubric) MatchOutcome {
	if len(pool) == 0 {
		return MatchOutcome{Matches: []Match{}}
	}
	if m.llm == nil {
		return fallbackOutcome(pool, rubric)
	}

	prompt, err := buildMatchPrompt(requester, pool, rubric)
	if err != nil {
		logger.Error().Err(err).Str("subject", rubric.Subject).Msg("Failed to build match prompt")
		return fallbackOutcome(pool, rubric)
	}

	reply, err := m.llm.Complete(ctx, matchSystemPrompt, prompt)
	if err != nil {
		logger.Warn().Err(err).Str("subject", rubric.Subject).Msg("Match completion failed, using fallback")
		return fallbackOutcome(pool, rubric)
	}

	var parsed modelReply
	if err := json.Unmarshal([]byte(extractJSON(reply)), &parsed); err != nil {
		logger.Warn().Err(err).Str("subject", rubric.Subject).Msg("Match reply was not valid JSON, using fallback")
		return fallbackOutcome(pool, rubric)
	}

	matches, scored := rankMatches(parsed, pool, rubric.Threshold)
	if scored == 0 {
		logger.Warn().Str("subject", rubric.Subject).Msg("Match reply scored no known candidates, using fallback")
		return fallbackOutcome(pool, rubric)
	}
	return MatchOutcome{Matches: matches}
}

// rankMatches keeps pool members scoring at least threshold, highest first,
// and reports how many replies named a pool member at all. A repeated id is
// collapsed into one entry carrying its best score rather than listed twice.
func rankMatches(reply modelReply, pool []Candidate, threshold float64) ([]Match, int) {
	names := make(map[string]string, len(pool))
	for _, c := range pool {
		names[c.ID] = c.Name
	}

	best := make(map[string]int)
	matches := make([]Match, 0, len(reply.Matches))
	scored := 0
	for _, r := range reply.Matches {
		id := strings.TrimSpace(r.ID)
		name, ok := names[id]
		if !ok {
			continue
		}
		scored++
		if r.Score < threshold {
			continue
		}
		if i, seen := best[id]; seen {
			if r.Score > matches[i].Score {
				matches[i].Score = r.Score
				matches[i].Reason = r.Reason
			}
			continue
		}
		best[id] = len(matches)
		matches = append(matches, Match{CandidateID: id, Name: name, Score: r.Score, Reason: r.Reason})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, scored
}

func fallbackOutcome(pool []Candidate, rubric Rubric) MatchOutcome {
	if rubric.EmptyOnFallback {
		return MatchOutcome{Matches: []Match{}, Fallback: true}
	}
	matches := make([]Match, 0, len(pool))
	for _, c := range pool {
		matches = append(matches, Match{CandidateID: c.ID, Name: c.Name})
	}
	return MatchOutcome{Matches: matches, Fallback: true}
}

func buildMatchPrompt(requester interface{}, pool []Candidate, rubric Rubric) (string, error) {
	profile, err := json.MarshalIndent(requester, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal requester: %w", err)
	}
	candidates, err := json.MarshalIndent(pool, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal pool: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rank these %s for the requester.\n\n", rubric.Subject)
	b.WriteString("Scoring rubric (weights total 100):\n")
	for _, c := range rubric.Categories {
		fmt.Fprintf(&b, "- %s (%d points): %s\n", c.Name, c.Weight, c.Guidance)
	}
	fmt.Fprintf(&b, "Only include candidates scoring %.0f or higher.\n\n", rubric.Threshold)
	b.WriteString("Requester profile:\n")
	b.Write(profile)
	b.WriteString("\n\nCandidate pool:\n")
	b.Write(candidates)
	b.WriteString("\n\nReturn ONLY a JSON object like:\n")
	b.WriteString(`{"matches": [{"id": "<candidate id>", "score": 0, "reason": "<one sentence>"}]}`)
	b.WriteString("\n")
	return b.String(), nil
}
