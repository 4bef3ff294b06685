package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

func courseHeader(course CourseContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", course.Title)
	if course.Level != "" {
		fmt.Fprintf(&b, "Level: %s\n", course.Level)
	}
	if course.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", course.Description)
	}
	if len(course.RequiredSkills) > 0 {
		fmt.Fprintf(&b, "Required skills: %s\n", strings.Join(course.RequiredSkills, ", "))
	}
	return b.String()
}

func answerPrompt(input AnswerInput) string {
	var b strings.Builder
	b.WriteString("You are a strict technical admissions evaluator. A candidate answered an eligibility question in a recorded video; you are given the transcript.\n\n")
	b.WriteString(courseHeader(input.Course))
	fmt.Fprintf(&b, "\nQuestion: %s\n", input.Question)
	if input.RelatedSkill != "" {
		fmt.Fprintf(&b, "Skill being assessed: %s\n", input.RelatedSkill)
	}
	if len(input.ExpectedConcepts) > 0 {
		fmt.Fprintf(&b, "Concepts a strong answer covers: %s\n", strings.Join(input.ExpectedConcepts, ", "))
	}
	fmt.Fprintf(&b, "\nCandidate transcript:\n%s\n", input.Transcript)
	b.WriteString(`
Evaluate the answer. Score harshly; an empty, off-topic or failed transcript scores 0.

Respond with ONLY a JSON object with exactly these keys:
{
  "technicalScore": <0-10>,
  "conceptCoverageScore": <0-10>,
  "clarityScore": <0-10>,
  "overallScore": <0-10>,
  "feedback": "<2-3 sentence assessment>",
  "strengths": ["<strength>", ...],
  "improvementAreas": ["<area>", ...],
  "skillLevelAssessment": "<Strong|Moderate|Weak>"
}`)
	return b.String()
}

func overallPrompt(input OverallInput) string {
	answers, _ := json.MarshalIndent(input.Answers, "", "  ")

	var b strings.Builder
	b.WriteString("You are a technical admissions evaluator deciding whether a candidate is ready for a course. Each of the candidate's video answers has already been judged individually.\n\n")
	b.WriteString(courseHeader(input.Course))
	fmt.Fprintf(&b, "\nPer-answer results:\n%s\n", answers)
	b.WriteString(`
Aggregate these into a final eligibility verdict.

Respond with ONLY a JSON object with exactly these keys:
{
  "overallEligibilitySignal": "<Pass|Borderline|Fail>",
  "executiveSummary": "<2-3 sentence summary for a reviewer>",
  "overallReasoning": "<short justification of the signal>"
}`)
	return b.String()
}

func videoQuestionsPrompt(course CourseContext) string {
	var b strings.Builder
	b.WriteString("You are designing an admissions screening for a course. Write 6 questions a candidate answers by speaking to camera for about two minutes each. Each question probes one required skill and has concrete concepts a strong answer must cover.\n\n")
	b.WriteString(courseHeader(course))
	b.WriteString(`
Respond with ONLY a JSON array of objects with exactly these keys:
[
  {
    "question": "<the question>",
    "relatedSkill": "<one required skill>",
    "expectedConcepts": ["<concept>", ...]
  }
]`)
	return b.String()
}

func mcqListPrompt(course CourseContext) string {
	var b strings.Builder
	b.WriteString("You are designing an admissions screening for a course. Write 10 multiple-choice questions covering the required skills, each with exactly four options and one correct answer.\n\n")
	b.WriteString(courseHeader(course))
	b.WriteString(`
Respond with ONLY a JSON array of objects with exactly these keys:
[
  {
    "question": "<the question>",
    "options": ["<option>", "<option>", "<option>", "<option>"],
    "answer": "<the correct option verbatim>"
  }
]`)
	return b.String()
}
