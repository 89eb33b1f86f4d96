package shared

import (
	"strings"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	cases := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "cmd",
	}

	for rt, launcher := range cases {
		cmd, err := browserCommand(rt, "http://localhost:8000")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", rt, err)
		}
		if !strings.HasSuffix(cmd.Path, launcher) && cmd.Args[0] != launcher {
			t.Errorf("%s: expected launcher %q, got %v", rt, launcher, cmd.Args)
		}
		if cmd.Args[len(cmd.Args)-1] != "http://localhost:8000" {
			t.Errorf("%s: expected url as final argument, got %v", rt, cmd.Args)
		}
	}

	if _, err := browserCommand("plan9", "http://localhost:8000"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestOpenBrowserUnsupportedPlatform(t *testing.T) {
	original := getRuntime
	getRuntime = func() string { return "plan9" }
	defer func() { getRuntime = original }()

	if err := OpenBrowser("http://localhost:8000"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}
