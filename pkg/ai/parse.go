package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type schemaValidator = *jsonschema.Schema

var (
	answerSchema = jsonschema.MustCompileString("answer.json", `{
		"type": "object",
		"required": ["technicalScore", "conceptCoverageScore", "clarityScore", "overallScore", "feedback"],
		"properties": {
			"technicalScore": {"type": "number"},
			"conceptCoverageScore": {"type": "number"},
			"clarityScore": {"type": "number"},
			"overallScore": {"type": "number"},
			"feedback": {"type": "string"},
			"strengths": {"type": "array", "items": {"type": "string"}},
			"improvementAreas": {"type": "array", "items": {"type": "string"}},
			"skillLevelAssessment": {"type": "string"}
		}
	}`)

	overallSchema = jsonschema.MustCompileString("overall.json", `{
		"type": "object",
		"required": ["overallEligibilitySignal", "executiveSummary", "overallReasoning"],
		"properties": {
			"overallEligibilitySignal": {"type": "string", "enum": ["Pass", "Borderline", "Fail"]},
			"executiveSummary": {"type": "string"},
			"overallReasoning": {"type": "string"}
		}
	}`)

	questionListSchema = jsonschema.MustCompileString("questions.json", `{
		"type": "array",
		"minItems": 1,
		"items": {
			"type": "object",
			"required": ["question", "relatedSkill"],
			"properties": {
				"question": {"type": "string", "minLength": 1},
				"relatedSkill": {"type": "string"},
				"expectedConcepts": {"type": "array", "items": {"type": "string"}}
			}
		}
	}`)

	mcqListSchema = jsonschema.MustCompileString("mcqs.json", `{
		"type": "array",
		"minItems": 1,
		"items": {
			"type": "object",
			"required": ["question", "options", "answer"],
			"properties": {
				"question": {"type": "string", "minLength": 1},
				"options": {"type": "array", "minItems": 2, "items": {"type": "string"}},
				"answer": {"type": "string", "minLength": 1}
			}
		}
	}`)
)

// stripFences removes a markdown code fence around a JSON payload. Models
// regularly wrap responses in ```json blocks even when told not to.
func stripFences(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
	}
	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}

	return strings.TrimSpace(content)
}

// decodePayload strips fencing, validates the document against schema and
// decodes it into out.
func decodePayload(content string, schema schemaValidator, out interface{}) error {
	raw := stripFences(content)

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("parse ai response: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("validate ai response: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode ai response: %w", err)
	}

	return nil
}
