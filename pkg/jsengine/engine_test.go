package jsengine

import (
	"testing"
)

func TestEvalBool_Expressions(t *testing.T) {
	engine := New(nil)

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"arithmetic", "1 + 2 === 3", true},
		{"string concat", "'hello' + ' ' + 'world' === 'hello world'", true},
		{"boolean", "true && false", false},
		{"null coalescing", "(null ?? 'default') === 'default'", true},
		{"object property", "({name: 'test'}).name === 'test'", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.EvalBool(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalBool(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestNew_Variables(t *testing.T) {
	engine := New(map[string]string{"GITEA_URL": "https://gitea.example.com"})

	for _, expr := range []string{
		"GITEA_URL === 'https://gitea.example.com'",
		"env.GITEA_URL.startsWith('https://')",
	} {
		got, err := engine.EvalBool(expr)
		if err != nil {
			t.Fatalf("EvalBool(%q) error = %v", expr, err)
		}
		if !got {
			t.Errorf("EvalBool(%q) = false, want true", expr)
		}
	}
}

func TestEvalBool(t *testing.T) {
	engine := New(map[string]string{
		"GITHUB_URL": "https://github.com/a/b.git",
		"EMPTY":      "",
	})

	tests := []struct {
		expr string
		want bool
	}{
		{"GITHUB_URL", true},
		{"EMPTY", false},
		{"GITEA_URL", false},
		{"!GITEA_URL", true},
		{"env.GITEA_URL === undefined", true},
		{"GITHUB_URL && GITEA_URL", false},
		{"GITHUB_URL.includes('github.com')", true},
		{"1", true},
		{"0", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := engine.EvalBool(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalBool(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalBool_SyntaxError(t *testing.T) {
	engine := New(nil)
	if _, err := engine.EvalBool("GITHUB_URL &&"); err == nil {
		t.Error("expected syntax error")
	}
}

func TestEvalBool_UnknownLowercaseIdentifier(t *testing.T) {
	engine := New(nil)
	if _, err := engine.EvalBool("provider === 'gitea'"); err == nil {
		t.Error("expected reference error for unknown lower-case identifier")
	}
}

func TestConsoleDoesNotPanic(t *testing.T) {
	engine := New(nil)
	if _, err := engine.EvalBool("console.log('hello', 1); console.warn('w'); console.error('e'); true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
