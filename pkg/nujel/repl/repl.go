// Package repl is an interactive tokenizer console: each line typed is
// highlighted from the state the previous line left behind.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
	"github.com/sambeau/nujelmode/pkg/nujel/mode"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

// wordBreaks end the word being completed.
const wordBreaks = " \t()[]{}'`,\""

// Session holds the tokenizer state between lines.
type Session struct {
	hl    *highlight.Highlighter
	ansi  *highlight.ANSIRenderer
	out   io.Writer
	st    *mode.State
	line  int
	color bool
}

// NewSession creates a session writing to out. A nil theme means the default.
func NewSession(hl *highlight.Highlighter, theme *highlight.Theme, out io.Writer) *Session {
	if hl == nil {
		hl = highlight.New(nil, 0)
	}
	if theme == nil {
		theme, _ = highlight.LookupTheme(highlight.DefaultTheme)
	}
	return &Session{
		hl:   hl,
		ansi: &highlight.ANSIRenderer{Theme: theme},
		out:  out,
		st:   mode.NewState(),
	}
}

// pending reports whether a form, string or comment is still open.
func (s *Session) pending() bool {
	return !s.st.TopLevel() || s.st.Mode != mode.Default
}

// Prompt returns the prompt for the next line: PROMPT at top level, otherwise
// CONTINUATION_PROMPT followed by the suggested indentation.
func (s *Session) Prompt() string {
	if !s.pending() {
		return PROMPT
	}
	return CONTINUATION_PROMPT + strings.Repeat(" ", mode.Indent(s.st))
}

// State returns a copy of the current tokenizer state.
func (s *Session) State() *mode.State { return s.st.Clone() }

// SetColor switches between class:text output and colored echo.
func (s *Session) SetColor(on bool) { s.color = on }

// Handle processes one line of input and reports whether the session should end.
func (s *Session) Handle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if commands[trimmed] {
		s.command(trimmed)
		return false
	}
	if !s.pending() {
		if trimmed == "exit" || trimmed == "quit" {
			fmt.Fprintln(s.out, "Goodbye!")
			return true
		}
		if strings.HasPrefix(trimmed, ":") {
			s.command(trimmed)
			return false
		}
		if trimmed == "" {
			return false
		}
	}

	s.line++
	tokens := s.hl.Line(s.st, input)
	if s.color {
		res := &highlight.Result{Lines: []highlight.LineResult{{Number: s.line, Text: input, Tokens: tokens}}}
		if err := s.ansi.Render(s.out, res); err != nil {
			fmt.Fprintf(s.out, "Error rendering line: %v\n", err)
		}
		return false
	}

	var parts []string
	for _, tok := range tokens {
		if tok.Style.Class == mode.None {
			continue
		}
		text := tok.Text
		if strings.ContainsAny(text, " \t") {
			text = strconv.Quote(text)
		}
		parts = append(parts, label(tok.Style)+":"+text)
	}
	if len(parts) > 0 {
		fmt.Fprintln(s.out, strings.Join(parts, " "))
	}
	return false
}

// label names a style in class:text output, e.g. "bracket-1".
func label(st mode.Style) string {
	if st.Class == mode.Bracket {
		return "bracket-" + strconv.Itoa(st.Depth)
	}
	return st.Class.String()
}

// commands are recognised on any line, even inside an open form. Other words
// starting with ':' are keywords once a form is open.
var commands = map[string]bool{
	":help": true, ":h": true, ":?": true,
	":state": true, ":reset": true, ":color": true,
}

// command handles REPL meta-commands that start with ':'
func (s *Session) command(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(s.out, "  :state          Show the tokenizer state")
		fmt.Fprintln(s.out, "  :reset          Start again from a fresh state")
		fmt.Fprintln(s.out, "  :color          Toggle colored output")
		fmt.Fprintln(s.out, "  exit, quit      Exit the REPL")

	case ":state":
		s.printState()

	case ":reset":
		s.st = mode.NewState()
		s.line = 0
		fmt.Fprintln(s.out, "State reset")

	case ":color":
		s.color = !s.color
		if s.color {
			fmt.Fprintln(s.out, "Color output ON")
		} else {
			fmt.Fprintln(s.out, "Color output OFF")
		}

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func (s *Session) printState() {
	st := s.st
	fmt.Fprintf(s.out, "mode: %s\n", st.Mode)
	fmt.Fprintf(s.out, "depth: %d\n", st.Depth())
	fmt.Fprintf(s.out, "indent: %d\n", mode.Indent(st))
	if st.CommentDepth.Active() {
		fmt.Fprintf(s.out, "comment depth: %d\n", st.CommentDepth.Depth())
	}
	if st.QuoteDepth.Active() {
		fmt.Fprintf(s.out, "quote depth: %d\n", st.QuoteDepth.Depth())
	}
	for _, f := range st.Frames() {
		fmt.Fprintf(s.out, "  %c at column %d\n", f.Bracket, f.Indent)
	}
}

// Complete returns completion candidates for line, each the whole line with
// its last word completed from the keyword table.
func (s *Session) Complete(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	start := strings.LastIndexAny(line, wordBreaks) + 1
	prefix := line[start:]
	if prefix == "" {
		return nil
	}
	words := s.hl.Tokenizer().Keywords().Complete(prefix)
	if len(words) == 0 {
		return nil
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = line[:start] + w
	}
	return out
}

// Start runs the REPL on the terminal with line editing, history, and tab
// completion until the user quits.
func Start(out io.Writer, hl *highlight.Highlighter, theme *highlight.Theme, version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	session := NewSession(hl, theme, out)
	session.SetColor(true)
	line.SetCompleter(session.Complete)

	historyFile := filepath.Join(os.TempDir(), ".nujel_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(out, "nujel mode", version)
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit, ':help' for commands")
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt(session.Prompt())
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C clears any open form
				fmt.Fprintln(out, "^C")
				session.st = mode.NewState()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if session.Handle(input) {
			return
		}
	}
}
