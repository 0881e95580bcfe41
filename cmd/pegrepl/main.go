package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/packrat/lexer"
	"github.com/npillmayer/packrat/peg"
	"github.com/npillmayer/packrat/peg/pegdesc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// options are the flags shared by all commands.
type options struct {
	trace  string
	start  string
	expr   string
	prefix bool
	raw    bool
}

func main() {
	// set up logging
	initDisplay()
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "pegrepl",
		Short:         "Check packrat grammars and parse input with them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := checkEnvironmentVariables(cmd); err != nil {
				return err
			}
			return setTraceLevel(opts.trace)
		},
	}
	root.PersistentFlags().StringVar(&opts.trace, "trace", "Error", "Trace level [Debug|Info|Error]")
	root.PersistentFlags().StringVar(&opts.start, "start", "", "Start rule (default: first rule)")
	root.AddCommand(newCheckCommand(), newParseCommand(opts), newReplCommand(opts), newLexCommand())
	return root
}

func setTraceLevel(l string) error {
	if err := configureTracing(l); err != nil {
		return err
	}
	tracer().Infof("Trace level is %s", l)
	return nil
}

// loadGrammar reads a grammar description from a file. The grammar is named
// after the file.
func loadGrammar(filename string) (*peg.Grammar, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return pegdesc.Load(filename, string(source))
}

// startRule returns the rule to start parsing with.
func startRule(g *peg.Grammar, name string) (string, error) {
	if name == "" {
		return g.Rules()[0].Name, nil
	}
	if _, ok := g.Rule(name); !ok {
		return "", fmt.Errorf("%w: %q", peg.ErrUnknownRule, name)
	}
	return name, nil
}

// --- check -----------------------------------------------------------------

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <grammar>",
		Short: "Load and validate a grammar description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0])
			if err != nil {
				reportGrammarError(err)
				return err
			}
			g.Dump() // only visible in debug mode
			pterm.Info.Println(fmt.Sprintf("grammar %s: %d rules, fingerprint %s", g.Name, g.Size(),
				g.Fingerprint()))
			fmt.Fprint(cmd.OutOrStdout(), g.String())
			return nil
		},
	}
}

func reportGrammarError(err error) {
	var gerrs peg.GrammarErrors
	if errors.As(err, &gerrs) {
		for _, e := range gerrs {
			pterm.Error.Println(e.Error())
		}
		return
	}
	pterm.Error.Println(err.Error())
}

// --- parse -----------------------------------------------------------------

func newParseCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <grammar> [input-file]",
		Short: "Parse input with a grammar and display the result",
		Long: `Parse input with a grammar and display the result.
Input is read from a file, from flag -e or from stdin. The complete input has to
match unless --prefix is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0])
			if err != nil {
				reportGrammarError(err)
				return err
			}
			start, err := startRule(g, opts.start)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args[1:], opts)
			if err != nil {
				return err
			}
			m, err := parseInput(g, start, input, opts.prefix)
			if err != nil {
				printDiagnostic(input, err)
				return err
			}
			printResult(start, m.Value, input)
			pterm.Info.Println(fmt.Sprintf("consumed %d of %d bytes, cache: %d hits, %d misses",
				m.End, len(input), m.Stats.Hits, m.Stats.Misses))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.expr, "expr", "e", "", "Input text")
	cmd.Flags().BoolVar(&opts.prefix, "prefix", false, "Accept a match of a prefix of the input")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Do not strip a final line break from input files")
	return cmd
}

func readInput(cmd *cobra.Command, args []string, opts *options) (string, error) {
	if cmd.Flags().Changed("expr") {
		return opts.expr, nil
	}
	var data []byte
	var err error
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", err
	}
	input := string(data)
	if !opts.raw {
		input = strings.TrimSuffix(strings.TrimSuffix(input, "\n"), "\r")
	}
	return input, nil
}

// parseInput parses with left recursion detection switched on, as grammars
// in development will contain left recursion now and then.
func parseInput(g *peg.Grammar, start string, input string, prefix bool) (*peg.Match, error) {
	if prefix {
		return peg.Parse(g, start, input, peg.DetectLeftRecursion(true))
	}
	return peg.ParseFullInput(g, start, input, peg.DetectLeftRecursion(true))
}

// --- repl ------------------------------------------------------------------

func newReplCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl <grammar>",
		Short: "Parse lines entered interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0])
			if err != nil {
				reportGrammarError(err)
				return err
			}
			start, err := startRule(g, opts.start)
			if err != nil {
				return err
			}
			repl, err := readline.New("peg> ")
			if err != nil {
				return err
			}
			defer repl.Close()
			intp := &Intp{g: g, start: start, repl: repl}
			pterm.Info.Println(fmt.Sprintf("Welcome to pegrepl, grammar %s, start rule %s", g.Name, start))
			tracer().Infof("Quit with <ctrl>D")
			intp.REPL()
			return nil
		},
	}
}

// Intp is our interpreter object
type Intp struct {
	g     *peg.Grammar
	start string
	repl  *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if quit := intp.Eval(line); quit {
			break
		}
	}
	println("Good bye!")
}

// Eval parses a line of input. Lines starting with a colon are commands:
//
//	:start <rule>   switch the start rule
//	:rules          list the rules of the grammar
//	:quit           leave the REPL
//
func (intp *Intp) Eval(line string) bool {
	if strings.HasPrefix(line, ":") {
		return intp.command(strings.Fields(line[1:]))
	}
	m, err := parseInput(intp.g, intp.start, line, false)
	if err != nil {
		printDiagnostic(line, err)
		return false
	}
	printResult(intp.start, m.Value, line)
	return false
}

func (intp *Intp) command(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "quit", "q":
		return true
	case "rules":
		for _, r := range intp.g.Rules() {
			pterm.Println(r.String())
		}
	case "start":
		if len(args) != 2 {
			pterm.Error.Println("usage: :start <rule>")
			return false
		}
		start, err := startRule(intp.g, args[1])
		if err != nil {
			pterm.Error.Println(err.Error())
			return false
		}
		intp.start = start
		pterm.Info.Println("start rule is " + start)
	default:
		pterm.Error.Println("unknown command :" + args[0])
	}
	return false
}

// --- lex -------------------------------------------------------------------

func newLexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Split a file into lines of tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			lines, err := lexer.Lines(string(source))
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), lineLabel(l))
			}
			if err != nil {
				pterm.Error.Println(err.Error())
			}
			return err
		},
	}
}
