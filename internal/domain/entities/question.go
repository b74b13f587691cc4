// Package entities contains domain entities used across the application.
package entities

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// QuestionID identifies a question within the dataset.
// Datasets may use either numbers or strings, both are kept in their textual form.
type QuestionID string

// UnmarshalJSON accepts both JSON numbers and JSON strings.
func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id must be a number or a string: %w", err)
	}
	*id = QuestionID(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar node.
func (id *QuestionID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("question id must be a scalar, line %d", node.Line)
	}
	*id = QuestionID(node.Value)
	return nil
}

// Question is a single quiz record from the dataset.
// Records are immutable once the dataset has been loaded.
type Question struct {
	ID          QuestionID `json:"id" yaml:"id" validate:"required"`                   // unique, stable identifier
	Question    string     `json:"question" yaml:"question" validate:"required,notblank"` // question text
	Answer      string     `json:"answer" yaml:"answer" validate:"required,notblank"`     // canonical correct answer
	Explanation string     `json:"explanation" yaml:"explanation"`                        // optional explanation
}
