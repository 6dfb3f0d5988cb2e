package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	old := Version
	Version = "v0.3.1"
	t.Cleanup(func() { Version = old })

	if !strings.Contains(String(), "version: v0.3.1") {
		t.Errorf("String() = %q", String())
	}
	if !strings.Contains(Template(), "{{.Name}} version v0.3.1") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.HasPrefix(UserAgent(), "astroplot/v0.3.1") {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
