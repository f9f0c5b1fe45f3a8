package validator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Commands that carry nested commands or a file reference.
const (
	cmdRunFlow = "runFlow"
	cmdRepeat  = "repeat"
	cmdRetry   = "retry"
)

// ParseError represents a flow file that cannot be read as YAML.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Ref is a runFlow target found in a flow file.
type Ref struct {
	File string
	Line int
}

// ParseRefsFile reads path and returns its runFlow targets.
func ParseRefsFile(path string) ([]Ref, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from a generated script
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseRefs(data, path)
}

// ParseRefs returns every runFlow target in a flow, in document order.
// Targets in onFlowStart/onFlowComplete hooks and inside repeat, retry
// and inline runFlow commands are included.
func ParseRefs(data []byte, sourcePath string) ([]Ref, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var refs []Ref
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: sourcePath, Message: err.Error()}
		}
		if len(doc.Content) == 0 {
			continue
		}

		root := doc.Content[0]
		switch root.Kind {
		case yaml.SequenceNode:
			refs = appendCommandRefs(refs, root)
		case yaml.MappingNode:
			for _, hook := range []string{"onFlowStart", "onFlowComplete"} {
				if seq := mappingValue(root, hook); seq != nil && seq.Kind == yaml.SequenceNode {
					refs = appendCommandRefs(refs, seq)
				}
			}
		}
	}
	return refs, nil
}

func appendCommandRefs(refs []Ref, seq *yaml.Node) []Ref {
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) < 2 {
			continue
		}
		name, value := item.Content[0].Value, item.Content[1]

		switch name {
		case cmdRunFlow, cmdRetry:
			if value.Kind == yaml.ScalarNode {
				if name == cmdRunFlow && value.Value != "" {
					refs = append(refs, Ref{File: value.Value, Line: value.Line})
				}
				continue
			}
			if file := mappingValue(value, "file"); file != nil && file.Value != "" {
				refs = append(refs, Ref{File: file.Value, Line: file.Line})
			}
			if cmds := mappingValue(value, "commands"); cmds != nil && cmds.Kind == yaml.SequenceNode {
				refs = appendCommandRefs(refs, cmds)
			}
		case cmdRepeat:
			if cmds := mappingValue(value, "commands"); cmds != nil && cmds.Kind == yaml.SequenceNode {
				refs = appendCommandRefs(refs, cmds)
			}
		}
	}
	return refs
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
