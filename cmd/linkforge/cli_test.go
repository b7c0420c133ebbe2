package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "linkforge" {
		t.Errorf("expected root command Use to be 'linkforge', got %q", rootCmd.Use)
	}

	expectedSubcommands := []string{"build", "validate", "config", "init", "version"}
	nameSet := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		nameSet[cmd.Name()] = true
	}
	for _, expected := range expectedSubcommands {
		if !nameSet[expected] {
			t.Errorf("expected root command to have subcommand %q", expected)
		}
	}
}

func TestBuildFlags(t *testing.T) {
	expectedFlags := []string{"watch", "baseURL", "destination", "layouts", "static", "prefers-dark"}
	for _, name := range expectedFlags {
		if buildCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected build command to have flag %q", name)
		}
	}

	flag := buildCmd.Flags().ShorthandLookup("d")
	if flag == nil {
		t.Error("expected build command to have short flag -d for destination")
	} else if flag.Name != "destination" {
		t.Errorf("expected short flag -d to map to 'destination', got %q", flag.Name)
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"settings", "log-level", "source"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q", name)
		}
	}
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

// resetFlags restores every flag to its default so that one test's
// arguments do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args against an isolated settings
// file and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LINKFORGE_PLATFORM_CONFIG", "")
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--settings", settingsPath, "--log-level", "off"}, args...))

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionOutput(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "linkforge "+version) {
		t.Errorf("expected version line, got %q", out)
	}
	if !strings.Contains(out, "commit:") {
		t.Errorf("expected commit line, got %q", out)
	}
}

func TestValidate_Valid(t *testing.T) {
	path := writeConfig(t, "page.json", `{"profile": {"name": "Ada", "bio": "Engineer"}}`)

	out, err := run(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "state:  ready") {
		t.Errorf("expected ready state, got:\n%s", out)
	}
	if !strings.Contains(out, "no issues found") {
		t.Errorf("expected no issues, got:\n%s", out)
	}
}

func TestValidate_Invalid(t *testing.T) {
	path := writeConfig(t, "page.yaml", "theme:\n  primaryColor: red\n")

	out, err := run(t, "validate", path)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if !strings.Contains(out, "theme.primaryColor") {
		t.Errorf("expected the failing field in the output, got:\n%s", out)
	}
	if !strings.Contains(out, "state:  degraded") {
		t.Errorf("expected degraded state, got:\n%s", out)
	}
}

func TestValidate_WarningSuggestion(t *testing.T) {
	path := writeConfig(t, "page.json", `{"profle": {"name": "Ada"}}`)

	out, err := run(t, "validate", path)
	if err != nil {
		t.Fatalf("unknown keys are warnings, got %v", err)
	}
	if !strings.Contains(out, `did you mean "profile"?`) {
		t.Errorf("expected a suggestion, got:\n%s", out)
	}
}

func TestValidate_JSON(t *testing.T) {
	path := writeConfig(t, "page.json", `{"theme": {"primaryColor": "red"}}`)

	out, _ := run(t, "validate", "--json", path)

	var got struct {
		Valid  bool `json:"isValid"`
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Valid {
		t.Error("expected isValid false")
	}
	if len(got.Errors) == 0 || got.Errors[0].Field != "theme.primaryColor" {
		t.Errorf("errors = %+v", got.Errors)
	}
}

func TestConfig_Formats(t *testing.T) {
	path := writeConfig(t, "page.json", `{"profile": {"name": "Ada <Lovelace>"}}`)

	tests := []struct {
		format string
		want   string
	}{
		{"json", `"name": "Ada &lt;Lovelace&gt;"`},
		{"yaml", "name: Ada &lt;Lovelace&gt;"},
		{"toml", `name = "Ada &lt;Lovelace&gt;"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "config", "--source", path, "--format", tt.format)
			if err != nil {
				t.Fatalf("config: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, out)
			}
		})
	}
}

func TestConfig_Raw(t *testing.T) {
	path := writeConfig(t, "page.json", `{"profile": {"name": "Ada <Lovelace>"}}`)

	out, err := run(t, "config", "--source", path, "--raw")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, `"name": "Ada <Lovelace>"`) {
		t.Errorf("expected unsanitized name, got:\n%s", out)
	}
}

func TestConfig_UnsupportedFormat(t *testing.T) {
	if _, err := run(t, "config", "--format", "ini"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "init", "--format", "yaml", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "linkforge.yaml")); err != nil {
		t.Errorf("expected linkforge.yaml: %v", err)
	}
	if !strings.Contains(out, "Created") {
		t.Errorf("expected created files to be listed, got:\n%s", out)
	}

	if _, err := run(t, "init", "--format", "yaml", dir); err == nil {
		t.Error("expected init to refuse an existing configuration")
	}
}

func TestBuild(t *testing.T) {
	path := writeConfig(t, "page.json", `{"profile": {"name": "Ada"}}`)
	dest := filepath.Join(t.TempDir(), "public")

	out, err := run(t, "build", "--source", path, "-d", dest, "--layouts", "", "--static", "")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Build complete") {
		t.Errorf("expected build summary, got:\n%s", out)
	}
	page, err := os.ReadFile(filepath.Join(dest, "index.html"))
	if err != nil {
		t.Fatalf("reading page: %v", err)
	}
	if !bytes.Contains(page, []byte("Ada")) {
		t.Error("page does not contain the profile name")
	}
}
