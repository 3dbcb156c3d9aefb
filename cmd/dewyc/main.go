/*
Dewyc compiles a Dewy grammar file and optionally drives it over an input
string.

Usage:

	dewyc [flags] GRAMMAR_FILE

The flags are:

	-v, --version
		Give the current version of dewyc and then exit.

	-i, --input TEXT
		Parse TEXT against the compiled grammar and report accept/reject.

	-s, --start NAME
		Override the grammar's inferred start symbol with the rule named
		NAME.

	-t, --dump-table
		Print the compiled RNGLR action table before parsing.

	-f, --dump-sppf
		On a successful parse, print the Shared Packed Parse Forest rooted
		at the accepted derivation.

	-c, --config FILE
		Load driver options (trace, dump_sppf, dump_table, start_symbol)
		from a TOML file. Flags given on the command line take precedence
		over the file.

	repl
		Instead of compiling a single input, open an interactive prompt
		(GNU-readline backed) that reads one line of input at a time and
		reports accept/reject against the already-compiled grammar.

If GRAMMAR_FILE fails to scan, parse, lower, or build, dewyc reports the
offending position and exits non-zero. A rejected input is reported as
well and makes dewyc exit with its own distinct non-zero status.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/david-andrew/dewy"
)

const (
	exitSuccess = iota
	exitCompileError
	exitParseRejected
	exitUsageError
)

var (
	returnCode  = exitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagInput   = pflag.StringP("input", "i", "", "Parse the given text against the compiled grammar")
	flagStart   = pflag.StringP("start", "s", "", "Override the grammar's start symbol")
	flagTable   = pflag.BoolP("dump-table", "t", false, "Print the compiled action table")
	flagSPPF    = pflag.BoolP("dump-sppf", "f", false, "Print the parse forest on a successful parse")
	flagConfig  = pflag.StringP("config", "c", "", "Load driver options from a TOML config file")
)

const version = "0.1.0"

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("dewyc %s\n", version)
		return
	}

	cfg, err := loadConfig(*flagConfig)
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = exitUsageError
		return
	}
	start := cfg.StartSymbol
	if *flagStart != "" {
		start = *flagStart
	}
	dumpTable := cfg.DumpTable || *flagTable
	dumpSPPF := cfg.DumpSPPF || *flagSPPF

	args := pflag.Args()
	if len(args) < 1 {
		pterm.Error.Println("expected a grammar file argument")
		returnCode = exitUsageError
		return
	}
	grammarFile := args[0]

	source, err := os.ReadFile(grammarFile)
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = exitCompileError
		return
	}

	gr, err := dewy.Compile(string(source), start)
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = exitCompileError
		return
	}
	pterm.Info.Printfln("compiled grammar with %d symbols, %d states", gr.G.Symbols.Len(), len(gr.Auto.Itemsets()))

	if dumpTable {
		fmt.Println(gr.Table.String())
	}

	if len(args) > 1 && args[1] == "repl" {
		runRepl(gr, dumpSPPF)
		return
	}

	if *flagInput != "" {
		reportParse(gr, *flagInput, dumpSPPF)
	}
}

// reportParse parses input against gr and prints the accept/reject verdict,
// setting returnCode to exitParseRejected on rejection without treating it
// as a usage or compile failure.
func reportParse(gr *dewy.Grammar, input string, dumpSPPF bool) {
	forest, root, err := gr.Parse(input)
	if err != nil {
		pterm.Warning.Println(err.Error())
		returnCode = exitParseRejected
		return
	}
	pterm.Success.Printfln("accepted %q", input)
	if dumpSPPF {
		fmt.Println(forest.Dump(root))
	}
}

// runRepl opens an interactive readline prompt, parsing each line the user
// enters against gr until EOF (Ctrl-D) or an interrupt.
func runRepl(gr *dewy.Grammar, dumpSPPF bool) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "dewy> "})
	if err != nil {
		pterm.Error.Println(fmt.Errorf("create readline config: %w", err).Error())
		returnCode = exitUsageError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err != io.EOF && err != readline.ErrInterrupt {
				pterm.Error.Println(err.Error())
				returnCode = exitUsageError
			}
			return
		}
		if line == "" {
			continue
		}
		reportParse(gr, line, dumpSPPF)
	}
}
