// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/tebeka/atexit"

	"github.com/ezrec/regasm/config"
	"github.com/ezrec/regasm/emulator"
	"github.com/ezrec/regasm/translate"
)

var f = translate.From

// isTerminal returns true if the file is an interactive terminal.
func isTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// scriptName returns the source file from the command line, or prompts
// for it on standard input.
func scriptName(stdin io.Reader, stdout *bufio.Writer) (name string, err error) {
	if flag.NArg() > 0 {
		name = flag.Arg(0)
		return
	}

	if isTerminal(os.Stdin) {
		fmt.Fprint(stdout, f("Enter script file name: "))
		stdout.Flush()
	}

	_, err = fmt.Fscan(stdin, &name)
	return
}

func main() {
	var conf string
	var input string
	var listing bool
	var tree bool
	var check bool
	var verbose bool

	flag.StringVar(&conf, "c", "", "YAML configuration file")
	flag.StringVar(&input, "i", "-", "Program input")
	flag.BoolVar(&listing, "l", false, "Print the assembled listing")
	flag.BoolVar(&tree, "t", false, "Print the assembled program as a label tree")
	flag.BoolVar(&check, "s", false, "Assemble only, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { stdout.Flush() })

	if flag.NArg() > 1 {
		atexit.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	var cfg config.Config
	if len(conf) != 0 {
		var err error
		cfg, err = config.Load(conf)
		if err != nil {
			atexit.Fatalf("%v: %v", conf, err)
		}
	}
	cfg.Verbose = cfg.Verbose || verbose
	cfg.Listing = cfg.Listing || listing
	cfg.Tree = cfg.Tree || tree

	if len(cfg.Locale) != 0 {
		translate.SetLocale(cfg.Locale)
	}

	stdin := bufio.NewReader(os.Stdin)

	script, err := scriptName(stdin, stdout)
	if err != nil {
		atexit.Fatalf("%v: %v", os.Args[0], err)
	}

	inf, err := os.Open(script)
	if err != nil {
		atexit.Fatalf("%v: %v", script, err)
	}
	defer inf.Close()

	prog, err := emulator.Assembler(cfg).Parse(inf)
	if err != nil {
		atexit.Fatalf("%v: %v", script, err)
	}

	if cfg.Listing {
		fmt.Fprint(stdout, prog.Listing())
	}
	if cfg.Tree {
		fmt.Fprintln(stdout, prog.Tree())
	}

	if check {
		atexit.Exit(0)
	}

	emu := emulator.NewEmulator()
	emu.Configure(cfg)
	emu.Program = prog
	emu.Console.Output = stdout

	if input == "-" {
		emu.Console.SetInput(stdin)
	} else {
		in, err := os.Open(input)
		if err != nil {
			atexit.Fatalf("%v: %v", input, err)
		}
		defer in.Close()
		emu.Console.SetInput(in)
	}

	err = emu.Reset()
	if err != nil {
		atexit.Fatalf("%v: %v", script, err)
	}

	err = emu.Run()
	if err != nil {
		atexit.Fatalf("%v: %v", script, err)
	}

	atexit.Exit(0)
}
