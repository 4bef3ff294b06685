package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skillgate/skillgate-api/internal/models"
)

func TestResolveQuestionMapsOrdinalOntoSet(t *testing.T) {
	questions := []models.VideoQuestion{
		{Question: "Explain goroutines", RelatedSkill: "Go", ExpectedConcepts: []string{"scheduler"}},
		{Question: "Explain indexes", RelatedSkill: "SQL"},
	}

	resolved := ResolveQuestion("Q1", questions)
	require.True(t, resolved.Resolved)
	require.Equal(t, "Explain goroutines", resolved.Question)
	require.Equal(t, "Go", resolved.RelatedSkill)
	require.Equal(t, []string{"scheduler"}, resolved.ExpectedConcepts)

	resolved = ResolveQuestion("Q2", questions)
	require.True(t, resolved.Resolved)
	require.Equal(t, "SQL", resolved.RelatedSkill)
}

func TestResolveQuestionFallsBackOutOfRange(t *testing.T) {
	questions := []models.VideoQuestion{
		{Question: "Explain goroutines", RelatedSkill: "Go"},
		{Question: "Explain indexes", RelatedSkill: "SQL"},
	}

	resolved := ResolveQuestion("Q3", questions)
	require.False(t, resolved.Resolved)
	require.Equal(t, FallbackSkill, resolved.RelatedSkill)
	require.Equal(t, "Q3", resolved.Question)
}

func TestResolveQuestionFallsBackOnGarbage(t *testing.T) {
	questions := []models.VideoQuestion{{Question: "Only one", RelatedSkill: "Go"}}

	for _, id := range []string{"", "question", "Q0", "Q9"} {
		resolved := ResolveQuestion(id, questions)
		require.False(t, resolved.Resolved, "id %q", id)
		require.Equal(t, FallbackSkill, resolved.RelatedSkill)
		require.Equal(t, id, resolved.Question, "id %q", id)
	}
}

func TestResolveQuestionBlankSkillBecomesFallback(t *testing.T) {
	questions := []models.VideoQuestion{{Question: "No skill tagged", RelatedSkill: "  "}}

	resolved := ResolveQuestion("Q1", questions)
	require.True(t, resolved.Resolved)
	require.Equal(t, FallbackSkill, resolved.RelatedSkill)
}
