package buildinfo

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	if got := UserAgent(); got != "spatialdash/v1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestTemplateIncludesCommit(t *testing.T) {
	old := Commit
	defer func() { Commit = old }()

	Commit = "abc123"
	if !strings.Contains(Template(), "commit: abc123") {
		t.Errorf("Template() = %q, want commit line", Template())
	}
	if !strings.Contains(String(), "commit: abc123") {
		t.Errorf("String() = %q, want commit line", String())
	}
}
