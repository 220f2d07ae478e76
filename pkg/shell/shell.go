// Package shell provides the interactive REPL for meetup.
//
// The shell keeps a working listing. Every /meet runs exactly one round over
// it, replaces it with the result and records the round.
package shell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/r3d91ll/meetup/pkg/agent"
	"github.com/r3d91ll/meetup/pkg/config"
	merrors "github.com/r3d91ll/meetup/pkg/errors"
	"github.com/r3d91ll/meetup/pkg/export"
	"github.com/r3d91ll/meetup/pkg/round"
)

// Shell is the interactive command-line interface.
type Shell struct {
	listing   []agent.Agent
	initial   []agent.Agent
	rounds    *round.Registry
	out       io.Writer
	logger    *slog.Logger
	formatter *merrors.Formatter
	rl        *readline.Instance
}

// Config holds shell configuration.
type Config struct {
	HistoryFile string
	Listing     []agent.Agent
	In          io.ReadCloser
	Out         io.Writer
	Logger      *slog.Logger
	UseColor    bool
}

var errQuit = fmt.Errorf("quit")

// New creates a new interactive shell reading from the terminal.
func New(cfg Config) (*Shell, error) {
	s := newShell(cfg)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(cfg.UseColor),
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    NewCompleter(s),
		Stdin:           cfg.In,
		Stdout:          s.out,
	})
	if err != nil {
		return nil, err
	}
	s.rl = rl
	return s, nil
}

func newShell(cfg Config) *Shell {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Shell{
		listing:   append([]agent.Agent(nil), cfg.Listing...),
		initial:   append([]agent.Agent(nil), cfg.Listing...),
		rounds:    round.NewRegistry(),
		out:       out,
		logger:    logger,
		formatter: &merrors.Formatter{UseColor: cfg.UseColor, Writer: out, Indent: "  "},
	}
}

func (s *Shell) prompt(color bool) string {
	if color {
		return "\033[32mmeetup>\033[0m "
	}
	return "meetup> "
}

// Run starts the interactive loop. It returns nil on /quit or end of input,
// and ctx.Err() once ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	// Closing the instance unblocks a pending Readline. It must happen once.
	var closeOnce sync.Once
	closeRL := func() { closeOnce.Do(func() { s.rl.Close() }) }
	defer closeRL()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			closeRL()
		case <-stop:
		}
	}()

	fmt.Fprintln(s.out, "Build a listing with /add, then run a round with /meet.")
	fmt.Fprintln(s.out, "Commands: /add, /remove, /list, /meet, /rounds, /transitions, /help, /quit")
	fmt.Fprintln(s.out)

	for {
		line, err := s.rl.Readline()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := s.Execute(line); err != nil {
			if err == errQuit {
				return nil
			}
			s.formatter.Display(err)
		}
	}
}

// Names returns the names in the working listing for tab completion.
func (s *Shell) Names() []string {
	names := make([]string, len(s.listing))
	for i, a := range s.listing {
		names[i] = a.Name
	}
	return names
}

// Listing returns a copy of the working listing.
func (s *Shell) Listing() []agent.Agent {
	return append([]agent.Agent(nil), s.listing...)
}

// Rounds returns the registry of rounds run in this shell.
func (s *Shell) Rounds() *round.Registry {
	return s.rounds
}

// Execute runs one shell input line.
func (s *Shell) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return merrors.AttachSuggestions(merrors.Commandf(merrors.ErrCommandUnknown,
			"commands start with '/': %s", line))
	}

	parts := strings.Fields(line)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return errQuit
	case "/help", "/h":
		s.printHelp()
		return nil
	case "/add":
		return s.handleAdd(args)
	case "/remove":
		return s.handleRemove(args)
	case "/list":
		return export.WriteListing(s.out, export.FormatTable, s.listing)
	case "/meet":
		return s.handleMeet()
	case "/rounds":
		s.printRounds()
		return nil
	case "/transitions":
		return s.handleTransitions(args)
	case "/load":
		return s.handleLoad(args)
	case "/save":
		return s.handleSave(args)
	case "/export":
		return s.handleExport(args)
	case "/reset":
		s.listing = append([]agent.Agent(nil), s.initial...)
		n := s.rounds.Clear()
		fmt.Fprintf(s.out, "Listing reset, %d rounds cleared.\n", n)
		return nil
	default:
		return merrors.AttachSuggestions(merrors.Commandf(merrors.ErrCommandUnknown,
			"unknown command: %s", cmd))
	}
}

func usage(text string) error {
	return merrors.Commandf(merrors.ErrCommandInvalidArgs, "usage: %s", text)
}

func (s *Shell) handleAdd(args []string) error {
	if len(args) != 2 {
		return usage("/add <name> <condition>")
	}
	c, err := agent.ParseCondition(args[1])
	if err != nil {
		return merrors.AttachSuggestions(merrors.Validationf(merrors.ErrConditionInvalid,
			"unknown condition %q", args[1]).WithCause(err))
	}
	s.listing = append(s.listing, agent.New(args[0], c))
	fmt.Fprintf(s.out, "Added %s (%s).\n", args[0], c)
	return nil
}

// handleRemove removes the first agent with the given name.
func (s *Shell) handleRemove(args []string) error {
	if len(args) != 1 {
		return usage("/remove <name>")
	}
	for i, a := range s.listing {
		if a.Name == args[0] {
			s.listing = append(s.listing[:i:i], s.listing[i+1:]...)
			fmt.Fprintf(s.out, "Removed %s.\n", a.Name)
			return nil
		}
	}
	return merrors.AttachSuggestions(merrors.Agentf(merrors.ErrAgentNotFound,
		"no agent named %q", args[0]))
}

func (s *Shell) handleMeet() error {
	r, err := round.Run(s.listing)
	if err != nil {
		return err
	}
	s.rounds.Add(r)
	s.listing = r.After

	s.logger.Debug("round recorded",
		slog.String("round_id", r.ID),
		slog.Int("agents", len(r.After)),
		slog.Int("changes", len(r.Changes())))

	changes := r.Changes()
	improved := 0
	for _, t := range changes {
		if t.Improved() {
			improved++
		}
	}
	fmt.Fprintf(s.out, "Round %d: %d of %d agents changed (%d improved, %d worsened).\n",
		s.rounds.Len(), len(changes), len(r.After), improved, len(changes)-improved)
	for _, t := range changes {
		fmt.Fprintf(s.out, "  %s: %s -> %s (%s, met %s)\n", t.Name, t.From, t.To, t.Rule, t.Partner)
	}
	return nil
}

func (s *Shell) printRounds() {
	rounds := s.rounds.List()
	if len(rounds) == 0 {
		fmt.Fprintln(s.out, "No rounds yet.")
		return
	}
	for i, r := range rounds {
		fmt.Fprintf(s.out, "%d  %s  %s  %d changes  input %s:%s\n",
			i+1, r.ID[:8], r.Timestamp.Format("15:04:05"), len(r.Changes()),
			export.HashAlgorithm, export.ShortHash(export.ListingHash(r.Before)))
	}
}

func (s *Shell) handleTransitions(args []string) error {
	var r *round.Round
	switch len(args) {
	case 0:
		latest, ok := s.rounds.Latest()
		if !ok {
			return merrors.AttachSuggestions(merrors.Agentf(merrors.ErrRoundNotFound, "no rounds recorded"))
		}
		r = latest
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("/transitions [round number]")
		}
		r, err = s.rounds.At(n)
		if err != nil {
			return err
		}
	default:
		return usage("/transitions [round number]")
	}
	return export.WriteRound(s.out, export.FormatTable, r)
}

func (s *Shell) handleLoad(args []string) error {
	if len(args) != 1 {
		return usage("/load <file>")
	}
	listing, err := config.LoadListing(args[0])
	if err != nil {
		return err
	}
	s.listing = listing
	s.initial = append([]agent.Agent(nil), listing...)
	fmt.Fprintf(s.out, "Loaded %d agents from %s.\n", len(listing), args[0])
	return nil
}

func (s *Shell) handleSave(args []string) error {
	if len(args) != 1 {
		return usage("/save <file>")
	}
	if err := config.SaveListing(args[0], s.listing); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %d agents to %s.\n", len(s.listing), args[0])
	return nil
}

// handleExport writes the latest round (or the listing when no round ran).
func (s *Shell) handleExport(args []string) error {
	if len(args) != 2 {
		return usage("/export <csv|yaml|json> <file>")
	}
	format, err := export.ParseFormat(args[0])
	if err != nil {
		return err
	}

	err = export.WriteFile(args[1], func(w io.Writer) error {
		if r, ok := s.rounds.Latest(); ok {
			return export.WriteRound(w, format, r)
		}
		return export.WriteListing(w, format, s.listing)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Exported to %s.\n", args[1])
	return nil
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  /add <name> <condition>      Append an agent (cure, healthy, sick, dying, dead)
  /remove <name>               Remove the first agent with this name
  /list                        Show the working listing
  /meet                        Run one meetup round over the listing
  /rounds                      List recorded rounds
  /transitions [n]             Show transitions of round n (default: latest)
  /load <file>                 Load a YAML listing
  /save <file>                 Save the listing as YAML
  /export <csv|yaml|json> <f>  Export the latest round (or the listing)
  /reset                       Restore the starting listing and clear rounds
  /help                        Show this help
  /quit                        Exit`)
	fmt.Fprintln(s.out, "\nConditions:")
	for _, c := range agent.Conditions {
		fmt.Fprintf(s.out, "  %-8s %s\n", c, c.Description())
	}
}
