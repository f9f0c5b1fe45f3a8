// Package script serializes expanded units into a Maestro flow file.
package script

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/viscouspot/maestro-flowgen/pkg/alias"
	"github.com/viscouspot/maestro-flowgen/pkg/core"
	"github.com/viscouspot/maestro-flowgen/pkg/expander"
	"github.com/viscouspot/maestro-flowgen/pkg/fileutil"
)

// DocumentSeparator splits the flow config from its commands.
const DocumentSeparator = "---"

// Header is the flow-level configuration document.
type Header struct {
	AppID string `yaml:"appId"`
}

// Emitter writes units as runFlow commands.
type Emitter struct {
	header   Header
	resolver *alias.Resolver
}

// NewEmitter creates an Emitter for appID using resolver for locators.
func NewEmitter(appID string, resolver *alias.Resolver) *Emitter {
	return &Emitter{
		header:   Header{AppID: appID},
		resolver: resolver,
	}
}

// Write serializes units to w. A blank line follows every unit, and a second
// one follows the last unit of each group.
func (e *Emitter) Write(w io.Writer, units []expander.Unit) error {
	head, err := yaml.Marshal(e.header)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	bw := bufio.NewWriter(w)
	bw.Write(head)
	bw.WriteString(DocumentSeparator + "\n\n")

	for _, u := range units {
		for _, ref := range u.Steps {
			fmt.Fprintf(bw, "- runFlow: %s\n", e.resolver.Resolve(ref))
		}
		bw.WriteString("\n")
		if u.EndOfGroup {
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

// Render returns the serialized script.
func (e *Emitter) Render(units []expander.Unit) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, units); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the script and writes it to path atomically.
// Failures are core.ErrSerializationIO.
func (e *Emitter) WriteFile(path string, units []expander.Unit) error {
	data, err := e.Render(units)
	if err != nil {
		return serializationError(path, err)
	}
	return fileutil.WriteAtomic(path, data, 0o644)
}

func serializationError(path string, cause error) error {
	return core.ErrSerializationIO.
		WithMessagef("failed to write %s", path).
		WithDetails(map[string]interface{}{"path": path}).
		WithCause(cause)
}
