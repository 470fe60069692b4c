package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vabarbosa/simple-data-vis/pkg/buildinfo"
)

func TestRootCommandSubcommands(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	want := []string{"render", "page", "types", "pick", "export", "serve", "mcp", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.Contains(out.String(), buildinfo.Version) {
		t.Errorf("version output %q should contain %q", out.String(), buildinfo.Version)
	}
}

func TestRootCommandConfigFlag(t *testing.T) {
	c, _ := newTestCLI(t)
	path := writeFile(t, "config.toml", "width = 100\n")
	root := c.RootCommand()

	root.SetArgs([]string{"--config", path, "types"})
	if err := root.Execute(); err != nil {
		t.Fatalf("types error: %v", err)
	}
	if c.ConfigPath != path {
		t.Errorf("ConfigPath = %q, want %q", c.ConfigPath, path)
	}
}

func TestCompletionCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("bash completion should reference the program name")
	}

	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("unknown shells should be rejected")
	}
}
