package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	linger "github.com/nathanjandrews/linger-core"
)

const (
	appName     = "linger"
	historyFile = ".linger_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Linger %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", linger.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(linger.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		// `linger file.lg` runs the file directly.
		if _, err := os.Stat(cmd); err == nil {
			os.Exit(cmdRun(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Linger %s

Usage:
  %s run [-q] <file.lg>    Run a script and print its result
  %s <file.lg>             Shorthand for run
  %s repl                  Start the REPL
  %s version               Print the version

`, linger.Version, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	quiet := fs.Bool("q", false, "suppress printing the program result")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-q] <file.lg>\n", appName)
		return 2
	}
	file := fs.Arg(0)

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := linger.NewInterp(os.Stdout)
	v, err := ip.EvalSource(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, red(linger.WrapErrorWithSource(err, string(src)).Error()))
		return 1
	}
	if !*quiet {
		fmt.Println(linger.FormatValue(v))
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := linger.NewInterp(os.Stdout)
	env := linger.NewEnvironment(nil)

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		v, err := ip.EvalStatements(env, code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(linger.WrapErrorWithSource(err, code).Error()))
			continue
		}
		fmt.Println(blue(linger.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates input lines until they form a complete
// statement list. Completeness is probed by parsing: a parse that fails only
// because input ran out means the user is mid-statement and gets a
// continuation prompt; any other outcome (success or a real error) ends the
// read and lets evaluation report the problem.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if isIncomplete(src) {
			continue
		}
		return src, true
	}
}

func isIncomplete(src string) bool {
	toks, err := linger.Tokenize(src)
	if err != nil {
		return false
	}
	_, err = linger.ParseStatements(toks)
	var pe *linger.ParseError
	return errors.As(err, &pe) && pe.Code == linger.ParseUnexpectedEOF
}
