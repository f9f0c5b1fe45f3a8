package validator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func refFiles(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.File
	}
	return out
}

func TestParseRefs_Commands(t *testing.T) {
	content := `appId: com.example.app
onFlowStart:
  - runFlow: hooks/start.yaml
onFlowComplete:
  - runFlow:
      file: hooks/done.yaml
---
- launchApp
- runFlow: a.yaml
- runFlow:
    file: b.yaml
    commands:
      - runFlow: c.yaml
- repeat:
    times: 2
    commands:
      - runFlow: d.yaml
- retry:
    maxRetries: 3
    file: e.yaml
- runFlow:
    when:
      visible: Login
    commands:
      - tapOn: Login
- tapOn: "runFlow"
`
	refs, err := ParseRefs([]byte(content), "flow.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"hooks/start.yaml", "hooks/done.yaml", "a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml"}
	if diff := cmp.Diff(want, refFiles(refs)); diff != "" {
		t.Errorf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRefs_Lines(t *testing.T) {
	refs, err := ParseRefs([]byte("appId: x\n---\n\n- runFlow: a.yaml\n"), "flow.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 1 || refs[0].Line != 4 {
		t.Errorf("expected one ref on line 4, got %+v", refs)
	}
}

func TestParseRefs_Empty(t *testing.T) {
	refs, err := ParseRefs(nil, "empty.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no refs, got %v", refs)
	}
}

func TestParseRefs_Invalid(t *testing.T) {
	_, err := ParseRefs([]byte("- runFlow: [unclosed\n"), "bad.yaml")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("expected *ParseError, got %T", err)
	}
}
