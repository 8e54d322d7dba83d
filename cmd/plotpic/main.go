// Command plotpic draws pictures on a 12 by 12 inch page.
//
// Without arguments on a terminal it opens the picture window: the page as a
// character grid with mouse selection and a command line. With -script it
// runs a command file and writes the files named by -png, -eps, -pdf and
// -txt. With -repl it reads commands from a line editor. Commands piped to
// stdin run as a script.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chzyer/readline"
	"golang.org/x/term"

	"plotpic/internal/config"
	"plotpic/internal/graphics"
	"plotpic/internal/history"
	"plotpic/internal/logging"
	"plotpic/internal/picture"
	"plotpic/internal/script"
	"plotpic/internal/tui"
	"plotpic/internal/viewport"
)

var mainLog = logging.New("main")

// screenResolution is the pixels per inch assumed for the page on screen.
const screenResolution = 100

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "plotpic:", err)
		os.Exit(1)
	}
}

type options struct {
	script string
	png    string
	eps    string
	pdf    string
	txt    string
	dpi    float64
	cols   int
	repl   bool
}

func run(args []string) error {
	cfg := config.Load()

	var opts options
	fs := flag.NewFlagSet("plotpic", flag.ContinueOnError)
	fs.StringVar(&opts.script, "script", "", "run the commands in `file`")
	fs.StringVar(&opts.png, "png", "", "save the picture as a PNG `file`")
	fs.StringVar(&opts.eps, "eps", "", "save the picture as an EPS `file`")
	fs.StringVar(&opts.pdf, "pdf", "", "save the picture as a PDF `file`")
	fs.StringVar(&opts.txt, "txt", "", "save the picture as a text `file`")
	fs.Float64Var(&opts.dpi, "dpi", float64(cfg.PNGResolution), "PNG resolution")
	fs.IntVar(&opts.cols, "cols", 80, "width of the text file in characters")
	fs.BoolVar(&opts.repl, "repl", false, "read commands from a line editor")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	sink := history.New(cfg.HistoryFile)
	p := picture.New(viewport.Primary, graphics.New(graphics.PrimaryDevice(screenResolution)), sink)
	applyConfig(p, cfg)
	runner := script.NewRunner(p, os.Stdout)

	batch := opts.script != "" || opts.png != "" || opts.eps != "" || opts.pdf != "" || opts.txt != ""
	if opts.script != "" {
		if err := runFile(runner, opts.script); err != nil {
			return err
		}
	}
	if batch {
		return export(p, cfg, opts)
	}

	if opts.repl {
		return repl(runner, cfg)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runner.Run(os.Stdin)
	}

	prog := tea.NewProgram(
		tui.New(p, sink),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := prog.Run()
	return err
}

// applyConfig sets the preferences from the rc file. Bad values are logged
// and skipped.
func applyConfig(p *picture.Picture, cfg *config.Config) {
	if cfg.Font != "" {
		if f, err := graphics.ParseFont(cfg.Font); err != nil {
			mainLog.Warn("ignoring font preference", "err", err)
		} else {
			p.SetFont(f)
		}
	}
	if err := p.SetFontSize(cfg.FontSize); err != nil {
		mainLog.Warn("ignoring font size preference", "err", err)
	}
	if cfg.MouseSelectsInner {
		if err := p.MouseSelectsInnerViewport(); err != nil {
			mainLog.Warn("ignoring mouse preference", "err", err)
		}
	}
}

func runFile(runner *script.Runner, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := runner.Run(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func export(p *picture.Picture, cfg *config.Config, opts options) error {
	if opts.png != "" {
		if err := p.SavePNG(cfg.GetSavePath(opts.png), opts.dpi); err != nil {
			return err
		}
	}
	if opts.eps != "" {
		if err := p.SaveEPS(cfg.GetSavePath(opts.eps)); err != nil {
			return err
		}
	}
	if opts.pdf != "" {
		if err := p.SavePDF(cfg.GetSavePath(opts.pdf)); err != nil {
			return err
		}
	}
	if opts.txt != "" {
		if err := p.SaveText(cfg.GetSavePath(opts.txt), opts.cols); err != nil {
			return err
		}
	}
	return nil
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range script.Commands() {
		items = append(items, readline.PcItem(name+": "))
	}
	return readline.NewPrefixCompleter(items...)
}

// repl reads commands one line at a time. Errors are reported and the loop
// goes on; ^C on an empty line or EOF ends it.
func repl(runner *script.Runner, cfg *config.Config) error {
	historyFile := ""
	if cfg.HistoryFile != "" {
		historyFile = cfg.HistoryFile + ".repl"
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "plotpic> ",
		HistoryFile:       historyFile,
		AutoComplete:      completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := runner.Exec(line); err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		}
	}
}
