package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVideoQuestionsPromptAsksForSix(t *testing.T) {
	prompt := videoQuestionsPrompt(CourseContext{
		Title:          "Go Backend",
		RequiredSkills: []string{"Go", "SQL"},
	})

	require.Contains(t, prompt, "Write 6 questions")
	require.Contains(t, prompt, "Required skills: Go, SQL")
}

func TestMCQListPromptAsksForTen(t *testing.T) {
	prompt := mcqListPrompt(CourseContext{Title: "Go Backend"})

	require.Contains(t, prompt, "Write 10 multiple-choice questions")
	require.Contains(t, prompt, "Course: Go Backend")
}
