package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/r3d91ll/meetup/pkg/agent"
	merrors "github.com/r3d91ll/meetup/pkg/errors"
)

func newTestShell(listing ...agent.Agent) (*Shell, *bytes.Buffer) {
	var out bytes.Buffer
	return newShell(Config{Listing: listing, Out: &out}), &out
}

func TestExecuteAddListMeet(t *testing.T) {
	s, out := newTestShell()

	for _, line := range []string{
		"/add a SICK",
		"/add b dying",
		"/add c healthy",
		"/add d cure",
	} {
		if err := s.Execute(line); err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
	}

	if err := s.Execute("/meet"); err != nil {
		t.Fatalf("Execute(/meet) error = %v", err)
	}

	want := []agent.Agent{
		agent.New("c", agent.Healthy),
		agent.New("a", agent.Dying),
		agent.New("b", agent.Dead),
		agent.New("d", agent.Cure),
	}
	if got := s.Listing(); !reflect.DeepEqual(got, want) {
		t.Errorf("Listing() = %v, want %v", got, want)
	}
	if s.Rounds().Len() != 1 {
		t.Errorf("Rounds().Len() = %d, want 1", s.Rounds().Len())
	}
	if !strings.Contains(out.String(), "Round 1: 2 of 4 agents changed (0 improved, 2 worsened).") {
		t.Errorf("output missing round summary:\n%s", out.String())
	}

	out.Reset()
	if err := s.Execute("/list"); err != nil {
		t.Fatalf("Execute(/list) error = %v", err)
	}
	if !strings.Contains(out.String(), "b     dead") {
		t.Errorf("list output:\n%s", out.String())
	}
}

func TestExecuteErrors(t *testing.T) {
	s, _ := newTestShell(agent.New("a", agent.Sick))

	tests := []struct {
		line string
		code string
	}{
		{"hello", merrors.ErrCommandUnknown},
		{"/fly", merrors.ErrCommandUnknown},
		{"/add a", merrors.ErrCommandInvalidArgs},
		{"/add a zombie", merrors.ErrConditionInvalid},
		{"/remove", merrors.ErrCommandInvalidArgs},
		{"/remove nobody", merrors.ErrAgentNotFound},
		{"/transitions", merrors.ErrRoundNotFound},
		{"/transitions x", merrors.ErrCommandInvalidArgs},
		{"/transitions 3", merrors.ErrRoundNotFound},
		{"/export xml out.xml", merrors.ErrFormatUnsupported},
		{"/load", merrors.ErrCommandInvalidArgs},
		{"/load /nonexistent/listing.yaml", merrors.ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := s.Execute(tt.line)
			if !merrors.IsCode(err, tt.code) {
				t.Errorf("Execute(%q) error = %v, want %s", tt.line, err, tt.code)
			}
		})
	}
}

func TestExecuteQuitAndBlank(t *testing.T) {
	s, _ := newTestShell()
	for _, line := range []string{"/quit", "/exit", "/q"} {
		if err := s.Execute(line); err != errQuit {
			t.Errorf("Execute(%q) = %v, want errQuit", line, err)
		}
	}
	if err := s.Execute("   "); err != nil {
		t.Errorf("Execute(blank) = %v, want nil", err)
	}
}

func TestExecuteRemove(t *testing.T) {
	s, _ := newTestShell(agent.New("x", agent.Sick), agent.New("y", agent.Cure), agent.New("x", agent.Dead))

	if err := s.Execute("/remove x"); err != nil {
		t.Fatalf("Execute(/remove x) error = %v", err)
	}
	want := []agent.Agent{agent.New("y", agent.Cure), agent.New("x", agent.Dead)}
	if got := s.Listing(); !reflect.DeepEqual(got, want) {
		t.Errorf("Listing() = %v, want %v", got, want)
	}
}

func TestExecuteRoundsTransitionsReset(t *testing.T) {
	start := []agent.Agent{agent.New("s", agent.Sick), agent.New("c", agent.Cure)}
	s, out := newTestShell(start...)

	if err := s.Execute("/meet"); err != nil {
		t.Fatal(err)
	}
	if err := s.Execute("/meet"); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := s.Execute("/rounds"); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 2 {
		t.Errorf("/rounds printed %d lines:\n%s", lines, out.String())
	}
	if !strings.Contains(out.String(), "input SHA-256:") {
		t.Errorf("/rounds output missing hash algorithm:\n%s", out.String())
	}

	out.Reset()
	if err := s.Execute("/transitions 1"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "cured") {
		t.Errorf("/transitions 1 output:\n%s", out.String())
	}

	if err := s.Execute("/reset"); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Listing(), start) || s.Rounds().Len() != 0 {
		t.Errorf("after reset listing = %v, rounds = %d", s.Listing(), s.Rounds().Len())
	}
}

func TestExecuteSaveLoadExport(t *testing.T) {
	dir := t.TempDir()
	listingPath := filepath.Join(dir, "listing.yaml")
	csvPath := filepath.Join(dir, "round.csv")

	s, _ := newTestShell(agent.New("a", agent.Sick), agent.New("b", agent.Sick))
	if err := s.Execute("/save " + listingPath); err != nil {
		t.Fatalf("/save error = %v", err)
	}

	other, _ := newTestShell()
	if err := other.Execute("/load " + listingPath); err != nil {
		t.Fatalf("/load error = %v", err)
	}
	if !reflect.DeepEqual(other.Listing(), s.Listing()) {
		t.Errorf("loaded %v, want %v", other.Listing(), s.Listing())
	}

	if err := other.Execute("/meet"); err != nil {
		t.Fatal(err)
	}
	if err := other.Execute("/export csv " + csvPath); err != nil {
		t.Fatalf("/export error = %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "name,from,to,partner,rule\na,sick,dying,b,worsened\nb,sick,dying,a,worsened\n"
	if string(data) != want {
		t.Errorf("export = %q, want %q", data, want)
	}
}

func TestExecuteHelp(t *testing.T) {
	s, out := newTestShell()
	if err := s.Execute("/help"); err != nil {
		t.Fatal(err)
	}
	for _, cmd := range commands {
		if cmd == "exit" {
			continue
		}
		if !strings.Contains(out.String(), "/"+cmd) {
			t.Errorf("help does not mention /%s", cmd)
		}
	}
	for _, c := range agent.Conditions {
		if !strings.Contains(out.String(), c.Description()) {
			t.Errorf("help does not describe %s", c)
		}
	}
}

func TestExecuteMeetCountsImproved(t *testing.T) {
	s, out := newTestShell(agent.New("s", agent.Sick), agent.New("c", agent.Cure))
	if err := s.Execute("/meet"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Round 1: 1 of 2 agents changed (1 improved, 0 worsened).") {
		t.Errorf("/meet output:\n%s", out.String())
	}
}

func TestExportFailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "round.csv")
	s, _ := newTestShell(agent.New("a", agent.Sick))
	err := s.Execute("/export csv " + path)
	if !merrors.IsCode(err, merrors.ErrIOWriteFailed) {
		t.Fatalf("/export error = %v, want %s", err, merrors.ErrIOWriteFailed)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("export file exists after failure: %v", statErr)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	in, w := io.Pipe()
	defer w.Close()

	s, err := New(Config{In: in, Out: io.Discard})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want %v", err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
