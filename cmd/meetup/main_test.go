package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r3d91ll/meetup/pkg/agent"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCmd(t, "-version")
	if code != 0 || out != "meetup "+version+"\n" {
		t.Errorf("run(-version) = %d, %q", code, out)
	}
}

func TestRun_ListingJSON(t *testing.T) {
	listing := writeTemp(t, "listing.yaml", `- name: a
  category: sick
- name: b
  category: dying
- name: c
  category: healthy
- name: d
  category: cure
`)
	code, out, errOut := runCmd(t, "-listing", listing, "-format", "json", "-log-level", "error")
	if code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, errOut)
	}

	var got []agent.Agent
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	want := []agent.Agent{
		agent.New("c", agent.Healthy),
		agent.New("a", agent.Dying),
		agent.New("b", agent.Dead),
		agent.New("d", agent.Cure),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}
	if errOut != "" {
		t.Errorf("expected no log output at error level, got:\n%s", errOut)
	}
}

func TestRun_ConfigFormatAndOutFile(t *testing.T) {
	cfg := writeTemp(t, "config.yaml", `listing:
  - name: x
    category: cure
  - name: y
    category: sick
output:
  format: csv
  color: never
`)
	outPath := filepath.Join(t.TempDir(), "result.csv")

	code, stdout, errOut := runCmd(t, "-config", cfg, "-out", outPath)
	if code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, errOut)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty when -out is set, got %q", stdout)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "name,category\nx,cure\ny,healthy\n" {
		t.Errorf("output file = %q", data)
	}
	if !strings.Contains(errOut, "round complete") {
		t.Errorf("expected info log, got:\n%s", errOut)
	}
}

func TestRun_Errors(t *testing.T) {
	badListing := writeTemp(t, "bad.yaml", "- name: a\n  category: zombie\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"missing config", []string{"-config", "/nonexistent/config.yaml"}, 1, "CONFIG_NOT_FOUND"},
		{"bad listing", []string{"-listing", badListing}, 1, "CONFIG_PARSE_FAILED"},
		{"bad format", []string{"-format", "xml"}, 1, "FORMAT_UNSUPPORTED"},
		{"bad log level", []string{"-log-level", "loud"}, 2, "COMMAND_INVALID_ARGS"},
		{"bad log format", []string{"-log-format", "xml"}, 2, "COMMAND_INVALID_ARGS"},
		{"extra args", []string{"extra"}, 2, "COMMAND_INVALID_ARGS"},
		{"unknown flag", []string{"-nope"}, 2, "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCmd(t, tt.args...)
			if code != tt.wantCode {
				t.Errorf("run() = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, errOut)
			}
		})
	}
}

func TestRun_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	code, out, errOut := runCmd(t, "-init", "-config", path)
	if code != 0 {
		t.Fatalf("run(-init) = %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, path) {
		t.Errorf("stdout = %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not created: %v", err)
	}

	code, out, errOut = runCmd(t, "-config", path, "-format", "yaml", "-log-level", "warn")
	if code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "name: b\n  category: dead") {
		t.Errorf("yaml output:\n%s", out)
	}
}

func TestNewLogger(t *testing.T) {
	var jsonOut bytes.Buffer
	newLogger(&jsonOut, slog.LevelInfo, logFormatJSON, true).Info("json log test", slog.String("key", "value"))
	if !strings.Contains(jsonOut.String(), `"msg":"json log test"`) || !strings.Contains(jsonOut.String(), `"key":"value"`) {
		t.Errorf("json log = %s", jsonOut.String())
	}

	var textOut bytes.Buffer
	logger := newLogger(&textOut, slog.LevelWarn, logFormatText, true)
	logger.Info("hidden")
	logger.Warn("text log test", slog.String("key", "value"))
	if strings.Contains(textOut.String(), "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(textOut.String(), "text log test") || !strings.Contains(textOut.String(), "key=value") {
		t.Errorf("text log = %s", textOut.String())
	}
	if strings.Contains(textOut.String(), "\033[") {
		t.Error("noColor logger should not emit ANSI codes")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}
