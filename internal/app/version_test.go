package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--days", "80"}, false},
		{[]string{"--version"}, true},
		{[]string{"-q", "-V"}, true},
		{[]string{"-version"}, true},
		{[]string{"--", "--version"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	old := Commit
	Commit = "abc1234"
	t.Cleanup(func() { Commit = old })

	var buf bytes.Buffer
	PrintVersion(&buf)
	out := buf.String()
	if !strings.HasPrefix(out, "lanterncalc ") {
		t.Errorf("PrintVersion() = %q, want lanterncalc prefix", out)
	}
	if !strings.Contains(out, "commit:  abc1234") {
		t.Errorf("PrintVersion() = %q, want the commit", out)
	}
}
