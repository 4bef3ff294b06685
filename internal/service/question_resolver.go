package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/skillgate/skillgate-api/internal/models"
)

// FallbackSkill tags answers whose question could not be resolved so they
// still count toward the aggregate without polluting the skill gap.
const FallbackSkill = "General"

var questionIndexPattern = regexp.MustCompile(`(\d+)`)

// ResolvedQuestion is the question context attached to one answer. Resolved
// reports whether a real question backed the identifier; when false the
// question text is the raw identifier and the skill is the fallback.
type ResolvedQuestion struct {
	Question         string
	RelatedSkill     string
	ExpectedConcepts []string
	Resolved         bool
}

// ResolveQuestion maps an answer's question identifier ("Q1", "Q2", ...)
// onto the course's generated question set. Identifiers are one-based. Any
// identifier that does not parse or falls outside the set resolves to the
// fallback context, carrying the raw identifier as the question text so the
// judge still sees what was asked for; the function never fails.
func ResolveQuestion(questionID string, questions []models.VideoQuestion) ResolvedQuestion {
	trimmed := strings.TrimSpace(questionID)
	fallback := ResolvedQuestion{
		Question:     trimmed,
		RelatedSkill: FallbackSkill,
	}

	match := questionIndexPattern.FindString(trimmed)
	if match == "" {
		return fallback
	}

	ordinal, err := strconv.Atoi(match)
	if err != nil || ordinal < 1 || ordinal > len(questions) {
		return fallback
	}

	q := questions[ordinal-1]
	skill := strings.TrimSpace(q.RelatedSkill)
	if skill == "" {
		skill = FallbackSkill
	}

	return ResolvedQuestion{
		Question:         q.Question,
		RelatedSkill:     skill,
		ExpectedConcepts: q.ExpectedConcepts,
		Resolved:         true,
	}
}
