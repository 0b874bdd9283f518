package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes results as YAML using the same keys as JSON output.
type YAMLFormatter struct {
	out io.Writer
}

func (f *YAMLFormatter) Result(r *CommandResult) error {
	data, err := toYAML(r)
	if err != nil {
		return err
	}
	_, err = f.out.Write(data)
	return err
}

func (f *YAMLFormatter) Confirm(string) (bool, error) { return true, nil }

func (f *YAMLFormatter) Interactive() bool { return false }

func (f *YAMLFormatter) Progress(string) Progress { return nopProgress{} }

// toYAML re-encodes v through its JSON form so field names and key order
// match the JSON output.
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	blockStyle(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return out, nil
}

// blockStyle clears the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
