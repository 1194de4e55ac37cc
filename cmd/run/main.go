package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	nativeruntime "github.com/wippyai/native-runtime"
	"github.com/wippyai/native-runtime/loaders/wasmmod"
	"github.com/wippyai/native-runtime/objfile"
	"github.com/wippyai/native-runtime/registry"
	"github.com/wippyai/native-runtime/runtime"
)

func main() {
	var (
		libFile     = flag.String("lib", "", "Path to native library artifact")
		funcName    = flag.String("func", "", "Function to call (default: the artifact's main entry)")
		argsStr     = flag.String("args", "", "Call arguments (comma-separated; numbers, true/false, or strings)")
		list        = flag.Bool("list", false, "List exported functions and exit")
		showLoaders = flag.Bool("loaders", false, "List registered loaders and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		runtime.SetLogger(logger)
		wasmmod.SetLogger(logger)
	}

	if *showLoaders {
		printLoaders()
		return
	}

	if *libFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -lib <artifact.so> [-func name] [-args a,b,...]")
		fmt.Fprintln(os.Stderr, "       run -lib <artifact.so> -list")
		fmt.Fprintln(os.Stderr, "       run -lib <artifact.so> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       run -loaders")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*libFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*libFile, *funcName, *argsStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printLoaders() {
	reg := registry.Default()
	fmt.Println("Binary loaders:")
	for _, key := range reg.BinaryKeys() {
		fmt.Printf("  %s\n", key)
	}
	fmt.Println("File loaders:")
	for _, key := range reg.FileKeys() {
		fmt.Printf("  %s\n", key)
	}
}

func run(libFile, funcName, argsStr string, listOnly bool) error {
	// Inspect before loading: listing must not execute artifact code.
	exports, err := objfile.Exports(libFile)
	if err != nil {
		return err
	}

	fmt.Printf("Artifact: %s\n", libFile)
	fmt.Printf("Exported functions: %d\n", len(exports))
	for _, name := range exports {
		fmt.Printf("  %s\n", name)
	}

	if listOnly {
		return nil
	}

	mod, err := runtime.LoadFromFile(libFile)
	if err != nil {
		return fmt.Errorf("load %s: %w", libFile, err)
	}
	defer mod.Close()

	if imports := mod.Imports(); len(imports) > 0 {
		fmt.Printf("\nSub-modules:\n")
		printImports(imports, "  ")
	}

	if funcName == "" {
		funcName = nativeruntime.SymbolModuleMain
	}

	fn, err := mod.GetFunction(funcName)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", funcName, err)
	}
	if fn == nil {
		return fmt.Errorf("%s: not exported", funcName)
	}

	args := parseArgs(argsStr)
	fmt.Printf("\nCalling %s(%s)...\n", funcName, argsStr)
	result, err := fn(args...)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}

	if result == nil {
		fmt.Println("OK (no result)")
	} else {
		fmt.Printf("Result: %v\n", result)
	}
	return nil
}

func printImports(mods []nativeruntime.Module, indent string) {
	for _, sub := range mods {
		fmt.Printf("%s%s\n", indent, sub.TypeKey())
		printImports(sub.Imports(), indent+"  ")
	}
}

// parseArgs splits a comma-separated argument list, inferring each value's
// type: integer, float, bool, or string.
func parseArgs(s string) []any {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	args := make([]any, len(parts))
	for i, p := range parts {
		args[i] = parseArg(strings.TrimSpace(p))
	}
	return args
}

func parseArg(s string) any {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}
