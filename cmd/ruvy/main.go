package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/ruvylang/ruvy/internal/ast"
	"github.com/ruvylang/ruvy/internal/backend"
	"github.com/ruvylang/ruvy/internal/config"
	"github.com/ruvylang/ruvy/internal/doc"
	"github.com/ruvylang/ruvy/internal/evaluator"
	"github.com/ruvylang/ruvy/internal/lexer"
	"github.com/ruvylang/ruvy/internal/parser"
	"github.com/ruvylang/ruvy/internal/pipeline"
	"github.com/ruvylang/ruvy/internal/repl"
	"github.com/ruvylang/ruvy/internal/transpiler"
	"github.com/ruvylang/ruvy/internal/vm"
	"github.com/ruvylang/ruvy/internal/wasm"

	"github.com/mattn/go-isatty"
)

const usage = `Usage:
  ruvy <file.rv> [args...]       run a script (tree-walk)
  ruvy -vm <file.rv> [args...]   run a script on the bytecode VM
  ruvy -c <file.rv>              compile to bytecode (.rvbc)
  ruvy -r <file.rvbc>            run compiled bytecode
  ruvy transpile <file.rv>       print the Rust rendering
  ruvy wasm <file.rv> -o <out>   emit a WebAssembly module
  ruvy doc <path> --output <dir> --format html|markdown|json [--private] [--verbose]
  ruvy repl                      start an interactive session

Environment: RUVY_BACKEND, RUVY_DEBUG, RUVY_HISTORY, NO_COLOR.`

func main() {
	defer func() {
		if r := recover(); r != nil {
			if env.Bool("RUVY_DEBUG") {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	args := os.Args[1:]
	if len(args) == 0 {
		runScript("", false)
		return
	}

	switch args[0] {
	case "help", "-help", "--help":
		fmt.Println(usage)
	case "repl":
		runRepl()
	case "transpile":
		runTranspile(args[1:])
	case "wasm":
		runWasm(args[1:])
	case "doc":
		runDoc(args[1:])
	case "-c", "--compile":
		runCompile(args[1:])
	case "-r", "--run":
		runCompiled(args[1:])
	case "-vm":
		if len(args) < 2 {
			fail("missing script path")
		}
		runScript(args[1], true)
	default:
		runScript(args[0], false)
	}
}

func fail(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	os.Exit(1)
}

// readSource reads a script from a path, or stdin when path is empty.
func readSource(path string) string {
	if path == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			fmt.Println(usage)
			os.Exit(0)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fail("reading stdin: %s", err)
		}
		return string(data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fail("%s", err)
	}
	return string(data)
}

// parseSource runs the frontend and exits on any diagnostic.
func parseSource(source, path string) *ast.Program {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if ctx.HasErrors() {
		reportDiagnostics(ctx, false)
		os.Exit(1)
	}
	return ctx.AstRoot.(*ast.Program)
}

func reportDiagnostics(ctx *pipeline.PipelineContext, verbose bool) {
	for _, err := range ctx.Errors {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		if verbose && err.Token.Line > 0 {
			fmt.Fprintf(os.Stderr, "  at %s:%d:%d\n", ctx.FilePath, err.Token.Line, err.Token.Column)
		}
	}
}

// backendFor resolves the backend: the -vm flag wins, then RUVY_BACKEND,
// then the nearest ruvy.yaml, then tree-walk.
func backendFor(path string, vmFlag bool) backend.Backend {
	debug := env.Bool("RUVY_DEBUG")
	if vmFlag {
		return backend.NewVM(debug)
	}
	name := env.Str("RUVY_BACKEND")
	if name == "" {
		dir, _ := os.Getwd()
		if path != "" {
			dir = filepath.Dir(path)
		}
		if cfg, err := config.Load(dir); err == nil {
			name = cfg.Backend
		}
	}
	if name == "vm" {
		return backend.NewVM(debug)
	}
	return backend.NewTreeWalk()
}

func runScript(path string, vmFlag bool) {
	source := readSource(path)
	filePath := path
	if path != "" {
		filePath, _ = filepath.Abs(path)
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath
	pipe := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		backend.NewExecutionProcessor(backendFor(path, vmFlag)),
	)
	ctx = pipe.Run(ctx)
	if ctx.HasErrors() {
		reportDiagnostics(ctx, env.Bool("RUVY_DEBUG"))
		os.Exit(1)
	}
}

func runRepl() {
	history := env.Str("RUVY_HISTORY")
	if history == "" {
		if home, err := os.UserHomeDir(); err == nil {
			history = filepath.Join(home, ".ruvy_history.db")
		}
	}
	cfg := repl.Config{
		HistoryPath: history,
		Mode:        env.Str("RUVY_BACKEND"),
		Debug:       env.Bool("RUVY_DEBUG"),
		Colors:      isatty.IsTerminal(os.Stdout.Fd()) && !env.Has("NO_COLOR"),
	}
	if err := repl.Run(cfg); err != nil {
		fail("%s", err)
	}
}

func runTranspile(args []string) {
	if len(args) < 1 {
		fail("usage: ruvy transpile <file.rv>")
	}
	program := parseSource(readSource(args[0]), args[0])
	code, err := transpiler.Transpile(program)
	if err != nil {
		fail("%s", err)
	}
	fmt.Print(code)
}

func runWasm(args []string) {
	var input, output string
	for i := 0; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			output = args[i+1]
			i++
			continue
		}
		if input == "" {
			input = args[i]
		}
	}
	if input == "" {
		fail("usage: ruvy wasm <file.rv> -o <out.wasm>")
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".wasm"
	}

	program := parseSource(readSource(input), input)
	module, err := wasm.Emit(program)
	if err != nil {
		fail("%s", err)
	}
	if err := os.WriteFile(output, module, 0o644); err != nil {
		fail("%s", err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", output, len(module))
}

func runDoc(args []string) {
	var input, outDir string
	format := "markdown"
	private := false
	verbose := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--output":
			if i+1 < len(args) {
				outDir = args[i+1]
				i++
			}
		case "--format":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--private":
			private = true
		case "--verbose":
			verbose = true
		default:
			if input == "" {
				input = args[i]
			}
		}
	}
	if input == "" {
		fail("usage: ruvy doc <path> --output <dir> --format html|markdown|json")
	}
	var ext string
	switch format {
	case "markdown":
		ext = ".md"
	case "html":
		ext = ".html"
	case "json":
		ext = ".json"
	default:
		fail("unknown format %q (html, markdown, json)", format)
	}
	if _, err := os.Stat(input); err != nil {
		fail("%s", err)
	}

	program := parseSource(readSource(input), input)
	items := doc.Extract(program, private)
	if verbose {
		fmt.Fprintf(os.Stderr, "extracted %d items from %s\n", len(items), input)
	}

	var rendered string
	switch format {
	case "markdown":
		rendered = doc.Markdown(input, items)
	case "html":
		rendered = doc.HTML(input, items)
	case "json":
		var err error
		rendered, err = doc.JSON(input, items)
		if err != nil {
			fail("%s", err)
		}
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	outPath := base + ext
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fail("%s", err)
		}
		outPath = filepath.Join(outDir, base+ext)
	}
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		fail("%s", err)
	}
	fmt.Printf("Wrote %s\n", outPath)
}

func runCompile(args []string) {
	if len(args) < 1 {
		fail("usage: ruvy -c <file.rv>")
	}
	path := args[0]
	program := parseSource(readSource(path), path)

	chunk, err := vm.Compile(program)
	if err != nil {
		fail("compilation: %s", err)
	}
	chunk.File = path

	data, err := chunk.Serialize()
	if err != nil {
		fail("%s", err)
	}
	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".rvbc"
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fail("%s", err)
	}
	fmt.Printf("Compiled %s -> %s (%d bytes)\n", path, outPath, len(data))
}

func runCompiled(args []string) {
	if len(args) < 1 {
		fail("usage: ruvy -r <file.rvbc>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fail("%s", err)
	}
	chunk, err := vm.Deserialize(data)
	if err != nil {
		fail("%s", err)
	}
	result := vm.NewVM().Run(chunk)
	switch r := result.(type) {
	case *evaluator.Error:
		fmt.Fprintln(os.Stderr, r.Inspect())
		os.Exit(1)
	case *evaluator.ThrowSignal:
		fmt.Fprintf(os.Stderr, "Error: uncaught throw: %s\n", r.Value.Inspect())
		os.Exit(1)
	default:
		if result != nil && result != evaluator.UNIT {
			fmt.Println(result.Inspect())
		}
	}
}
