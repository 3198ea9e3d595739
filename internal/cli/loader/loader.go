package loader

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// KindQuestionSet is the only accepted kind of question file
const KindQuestionSet = "QuestionSet"

// QuestionFile is a list of questions asked in order within one session.
// Later questions may refer back to earlier ones ("tell me more about it").
type QuestionFile struct {
	// Kind must be "QuestionSet"
	Kind string `json:"kind"`
	// Questions are submitted in file order
	Questions []string `json:"questions"`
}

// LoadFromFile loads a question set from a YAML file
func LoadFromFile(path string) (*QuestionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a question set
func Parse(data []byte) (*QuestionFile, error) {
	var qf QuestionFile
	if err := yaml.UnmarshalStrict(data, &qf); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if qf.Kind == "" {
		return nil, fmt.Errorf("'kind' field is required")
	}
	if qf.Kind != KindQuestionSet {
		return nil, fmt.Errorf("invalid kind '%s', must be '%s'", qf.Kind, KindQuestionSet)
	}
	if len(qf.Questions) == 0 {
		return nil, fmt.Errorf("questions is required and must not be empty")
	}

	for i, q := range qf.Questions {
		trimmed := strings.TrimSpace(q)
		if trimmed == "" {
			return nil, fmt.Errorf("questions[%d] is blank", i)
		}
		qf.Questions[i] = trimmed
	}

	return &qf, nil
}
