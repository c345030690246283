// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The ownc command compiles a single function of the ownership language,
// borrow checks it, and prints its MIR or restructured source.
package main

// example: ownc -O -mir program.ow
// example: echo 'fn f(x: i32) -> i32 { x }' | ownc -mir -

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ownlang/ownc/engine"
)

var (
	formatFlag  = flag.String("format", "plain", "output in 'plain' or 'json'")
	helpFlag    = flag.Bool("h", false, "prints usage")
	mirFlag     = flag.Bool("mir", false, "print the MIR after analysis")
	astFlag     = flag.Bool("ast", false, "print the restructured source recovered from the MIR")
	verboseFlag = flag.Bool("v", false, "annotate output with live sets and dominators")
	optFlag     = flag.Bool("O", false, "run the optimisation pipeline")
	passFlag    = flag.String("pass", "", "run a single named pass; see -l")
	listFlag    = flag.Bool("l", false, "list all passes")
)

func usage() {
	fmt.Fprintf(os.Stderr,
		`usage of `+os.Args[0]+`:

  `+os.Args[0]+` [<flag> ...] <file>

Give "-" as the file to read the program from standard input.

The <flag> arguments are:

`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *helpFlag {
		usage()
		return
	}
	if *listFlag {
		for name, p := range engine.AllPasses() {
			fmt.Printf("%-12s %s\n", name, p.Description)
		}
		return
	}
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	filename := flag.Arg(0)
	var source []byte
	var err error
	if filename == "-" {
		source, err = io.ReadAll(os.Stdin)
		filename = "<stdin>"
	} else {
		source, err = os.ReadFile(filename)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	config := &engine.Config{
		Filename: filename,
		Source:   string(source),
		Optimize: *optFlag,
	}
	if *passFlag != "" {
		config.Passes = []string{*passFlag}
	}
	result := engine.Compile(config)

	if *formatFlag == "json" {
		out := struct {
			Log *engine.Log `json:"log"`
			MIR string      `json:"mir,omitempty"`
		}{Log: result.Log}
		if result.MIR != nil && *mirFlag {
			out.MIR = result.MIR.String()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	} else {
		fmt.Fprint(os.Stderr, result.Log.String())
		if result.MIR != nil {
			switch {
			case *mirFlag && *verboseFlag:
				fmt.Println(result.MIR.VerboseString())
			case *mirFlag:
				fmt.Println(result.MIR.String())
			}
			if *astFlag {
				fmt.Println(result.MIR.IntoAST().String())
			}
		}
	}

	if result.Log.ContainsErrors() {
		os.Exit(1)
	}
}
