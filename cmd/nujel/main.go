package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/muesli/termenv"

	"github.com/sambeau/nujelmode/config"
	nerrors "github.com/sambeau/nujelmode/pkg/nujel/errors"
	"github.com/sambeau/nujelmode/pkg/nujel/highlight"
	"github.com/sambeau/nujelmode/pkg/nujel/logging"
	"github.com/sambeau/nujelmode/pkg/nujel/markdown"
	"github.com/sambeau/nujelmode/pkg/nujel/mode"
	"github.com/sambeau/nujelmode/pkg/nujel/repl"
	"github.com/sambeau/nujelmode/server"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// stdin is read for the "-" file argument.
var stdin io.Reader = os.Stdin

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		var e *nerrors.Error
		if errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, e.PrettyString())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// command runs one subcommand with its arguments.
type command func(a *app, args []string) error

var commands = map[string]command{
	"highlight": cmdHighlight,
	"indent":    cmdIndent,
	"check":     cmdCheck,
	"md":        cmdMarkdown,
	"watch":     cmdWatch,
	"serve":     cmdServe,
	"repl":      cmdRepl,
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("nujel", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr) }

	var (
		configPath  = flags.String("config", "", "Path to config file")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "nujel version %s\n", Version)
		return nil
	}

	rest := flags.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return fmt.Errorf("no command given")
	}
	name, cmdArgs := rest[0], rest[1:]
	cmd, ok := commands[name]
	if !ok {
		msg := fmt.Sprintf("unknown command %q", name)
		if match := nerrors.FindClosestMatch(name, commandNames()); match != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", match)
		}
		return errors.New(msg)
	}

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, stdout, stderr)
	if err != nil {
		return err
	}
	defer a.close()

	err = cmd(a, cmdArgs)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// app carries what every subcommand needs.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
	log     logging.Logger
	logOut  io.Writer
	logFile *os.File
	tok     *mode.Tokenizer
	hl      *highlight.Highlighter
}

func newApp(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*app, error) {
	a := &app{ctx: ctx, cfg: cfg, stdout: stdout, stderr: stderr}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	switch cfg.Logging.Output {
	case "", "stderr":
		a.logOut = stderr
	case "stdout":
		a.logOut = stdout
	default:
		path := cfg.Logging.Output
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.BaseDir, path)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nerrors.NewIO("open", path, err)
		}
		a.logFile = f
		a.logOut = f
	}
	a.log = logging.New(a.logOut, level, cfg.Logging.Format)

	kw, err := config.Keywords(cfg)
	if err != nil {
		return nil, err
	}
	a.tok, err = mode.New(kw)
	if err != nil {
		return nil, err
	}
	a.hl = highlight.New(a.tok, cfg.TabSize)
	return a, nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(a.stderr)
	return flags
}

// readSource reads a file, or stdin for "-".
func readSource(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nerrors.NewIO("read", "stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nerrors.NewIO("read", name, err)
	}
	return data, nil
}

func sourceTitle(name string) string {
	if name == "-" {
		return "stdin"
	}
	return filepath.Base(name)
}

// colorProfile picks the ANSI profile for --color.
func colorProfile(choice string, w io.Writer) (termenv.Profile, error) {
	switch choice {
	case "always":
		return termenv.TrueColor, nil
	case "never":
		return termenv.Ascii, nil
	case "auto", "":
		if f, ok := w.(*os.File); ok {
			return termenv.NewOutput(f).EnvColorProfile(), nil
		}
		return termenv.TrueColor, nil
	}
	return termenv.TrueColor, fmt.Errorf("invalid --color %q (must be auto, always, or never)", choice)
}

func cmdHighlight(a *app, args []string) error {
	flags := a.flagSet("highlight")
	format := flags.String("format", a.cfg.Render.Format, "Output format: html, ansi, json or tokens")
	theme := flags.String("theme", a.cfg.Render.Theme, "Color theme")
	lineNumbers := flags.Bool("line-numbers", a.cfg.Render.LineNumbers, "Number each line")
	standalone := flags.Bool("standalone", false, "Write a complete HTML page")
	color := flags.String("color", "auto", "ANSI colors: auto, always or never")
	css := flags.Bool("css", false, "Print the theme stylesheet and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	th, err := highlight.LookupTheme(*theme)
	if err != nil {
		return err
	}
	if *css {
		return highlight.WriteCSS(a.stdout, th)
	}
	profile, err := colorProfile(*color, a.stdout)
	if err != nil {
		return err
	}

	files := flags.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		src, err := readSource(name)
		if err != nil {
			return err
		}
		r, err := highlight.NewRenderer(*format, highlight.Options{
			Theme:       th,
			LineNumbers: *lineNumbers,
			Standalone:  *standalone,
			Title:       sourceTitle(name),
			Profile:     profile,
		})
		if err != nil {
			return err
		}
		if err := r.Render(a.stdout, a.hl.Document(string(src))); err != nil {
			return err
		}
	}
	return nil
}

func cmdIndent(a *app, args []string) error {
	flags := a.flagSet("indent")
	write := flags.Bool("w", false, "Write result to source file instead of stdout")
	list := flags.Bool("l", false, "List files whose indentation differs")
	if err := flags.Parse(args); err != nil {
		return err
	}

	files := flags.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		if name == "-" && *write {
			return fmt.Errorf("cannot use -w with stdin")
		}
		src, err := readSource(name)
		if err != nil {
			return err
		}
		out := a.hl.Reindent(string(src))
		changed := out != string(src)

		if *list {
			if changed {
				fmt.Fprintln(a.stdout, name)
			}
			continue
		}
		if *write {
			if !changed {
				continue
			}
			info, err := os.Stat(name)
			if err != nil {
				return nerrors.NewIO("stat", name, err)
			}
			if err := os.WriteFile(name, []byte(out), info.Mode().Perm()); err != nil {
				return nerrors.NewIO("write", name, err)
			}
			a.log.Infof("reindented %s", name)
			continue
		}
		io.WriteString(a.stdout, out)
	}
	return nil
}

// unclosed describes what is still open in an end-of-document state, or ""
// when everything was closed.
func unclosed(st *mode.State) string {
	var parts []string
	switch st.Mode {
	case mode.InString:
		parts = append(parts, "unterminated string")
	case mode.InSymbol:
		parts = append(parts, "unterminated |symbol|")
	case mode.InBlockComment:
		parts = append(parts, "unterminated #| comment")
	case mode.InSExprComment:
		parts = append(parts, "#; without a form")
	}
	if n := st.Depth(); n > 0 {
		top, _ := st.Top()
		parts = append(parts, fmt.Sprintf("%d unclosed bracket(s), innermost %c", n, top.Bracket))
	}
	return strings.Join(parts, "; ")
}

func cmdCheck(a *app, args []string) error {
	flags := a.flagSet("check")
	if err := flags.Parse(args); err != nil {
		return err
	}
	files := flags.Args()
	if len(files) == 0 {
		return fmt.Errorf("check: no files specified")
	}

	failed := 0
	for _, name := range files {
		src, err := readSource(name)
		if err != nil {
			return err
		}
		if problem := unclosed(a.hl.Document(string(src)).End); problem != "" {
			fmt.Fprintf(a.stdout, "%s: %s\n", name, problem)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) end with open forms", failed, len(files))
	}
	return nil
}

func cmdMarkdown(a *app, args []string) error {
	flags := a.flagSet("md")
	theme := flags.String("theme", a.cfg.Render.Theme, "Color theme for code blocks")
	body := flags.Bool("body", false, "Write only the HTML body, without page and stylesheet")
	title := flags.String("title", "", "Page title (default: file name)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("md: expected exactly one file")
	}
	name := flags.Arg(0)

	th, err := highlight.LookupTheme(*theme)
	if err != nil {
		return err
	}
	src, err := readSource(name)
	if err != nil {
		return err
	}
	md := markdown.New(a.hl, th, a.cfg.Render.LineNumbers)
	if *body {
		return md.Convert(src, a.stdout)
	}
	if *title == "" {
		*title = sourceTitle(name)
	}
	return md.Page(src, *title, a.stdout)
}

// buildTree renders every source below root and reports how many pages it wrote.
func buildTree(b *server.Builder, root string, log logging.Logger) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !b.Renders(path) {
			return nil
		}
		out, err := b.BuildFile(path)
		if err != nil {
			log.Errorf("%v", err)
			return nil
		}
		log.Debugf("wrote %s", out)
		n++
		return nil
	})
	return n, err
}

func cmdWatch(a *app, args []string) error {
	flags := a.flagSet("watch")
	once := flags.Bool("once", false, "Render everything once and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}
	dir := a.cfg.Server.Root
	if flags.NArg() > 0 {
		dir = flags.Arg(0)
	}

	th, err := highlight.LookupTheme(a.cfg.Render.Theme)
	if err != nil {
		return err
	}
	b := server.NewBuilder(a.hl, th, a.cfg.Render.LineNumbers)

	n, err := buildTree(b, dir, a.log)
	if err != nil {
		return err
	}
	a.log.Infof("rendered %d file(s) in %s", n, dir)
	if *once {
		return nil
	}

	w, err := server.NewWatcher(a.log, func(path string) {
		if !b.Renders(path) {
			return
		}
		out, err := b.BuildFile(path)
		if err != nil {
			a.log.Errorf("%v", err)
			return
		}
		a.log.Infof("wrote %s", out)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	w.Start(a.ctx)
	a.log.Infof("watching %s", dir)
	<-a.ctx.Done()
	return nil
}

func cmdServe(a *app, args []string) error {
	flags := a.flagSet("serve")
	host := flags.String("host", a.cfg.Server.Host, "Listen host")
	port := flags.Int("port", a.cfg.Server.Port, "Listen port")
	noReload := flags.Bool("no-reload", false, "Disable live reload")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *port < 1 || *port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", *port)
	}
	a.cfg.Server.Host = *host
	a.cfg.Server.Port = *port
	if *noReload {
		a.cfg.Server.LiveReload = false
	}
	if flags.NArg() > 0 {
		a.cfg.Server.Root = flags.Arg(0)
	}

	srv, err := server.New(a.cfg, a.tok, a.log, a.logOut)
	if err != nil {
		return err
	}
	return srv.Run(a.ctx)
}

func cmdRepl(a *app, args []string) error {
	flags := a.flagSet("repl")
	if err := flags.Parse(args); err != nil {
		return err
	}
	th, err := highlight.LookupTheme(a.cfg.Render.Theme)
	if err != nil {
		return err
	}
	repl.Start(a.stdout, a.hl, th, Version)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `nujel - highlight, indent and preview Nujel source

Usage:
  nujel [options] <command> [command options] [args]

Commands:
  highlight [--format F] [--theme T] FILE...   Highlight files ("-" for stdin)
  indent [-w] [-l] FILE...                     Re-indent files
  check FILE...                                Report files ending with open forms
  md FILE                                      Render Markdown with highlighted code
  watch [--once] [DIR]                         Render sources to .html on change
  serve [--port N] [DIR]                       Run the preview server
  repl                                         Interactive tokenizer

Options:
  --config PATH    Path to config file (default: auto-detect)
  --version        Show version
  --help           Show this help

Config Resolution:
  1. --config flag
  2. NUJEL_CONFIG environment variable
  3. ./nujel.yaml
  4. ~/.config/nujel/nujel.yaml

Examples:
  nujel highlight --format ansi main.nuj
  nujel indent -w src/*.nuj
  nujel serve --port 3000 .

`)
}
