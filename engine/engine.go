// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine is the programmatic entrypoint to the ownc compiler.  It
// wires the pipeline together in dependency order: parse, infer, lower to
// MIR, graph analyses, liveness, borrow check, then (optionally) the MIR
// optimisations followed by a fresh analysis pass, since the optimisations
// invalidate topology-derived data.
package engine

import (
	"fmt"

	"github.com/ownlang/ownc/ast"
	"github.com/ownlang/ownc/borrowck"
	"github.com/ownlang/ownc/infer"
	"github.com/ownlang/ownc/mir"
	"github.com/ownlang/ownc/optimize"
	"github.com/ownlang/ownc/syntax"
)

// A Pass is a registered MIR rewrite.  Run may leave the function's derived
// analyses stale; Compile re-analyses after running passes.
type Pass struct {
	Name        string
	Description string
	Run         func(*mir.Function)
}

// All available passes, keyed by a unique, one-word, all-lowercase name.
var passes = map[string]Pass{
	"constprop": {
		Name:        "constprop",
		Description: "propagate constants within basic blocks",
		Run:         optimize.ConstantPropagation,
	},
	"unused": {
		Name:        "unused",
		Description: "remove locals whose values are never used",
		Run:         optimize.RemoveUnusedVariables,
	},
	"unreachable": {
		Name:        "unreachable",
		Description: "remove blocks unreachable from the entry block",
		Run:         optimize.RemoveUnreachable,
	},
	"merge": {
		Name:        "merge",
		Description: "merge straight-line goto chains into single blocks",
		Run: func(f *mir.Function) {
			f.ComputePredecessors()
			optimize.MergeBlocks(f)
		},
	},
}

// AllPasses returns all of the MIR rewrites that can be performed, keyed by
// short name.
func AllPasses() map[string]Pass {
	return passes
}

// GetPass returns a Pass keyed by the given short name.  The short name
// must be one of the keys in the map returned by AllPasses.
func GetPass(shortName string) (Pass, bool) {
	p, ok := passes[shortName]
	return p, ok
}

// AddPass allows custom passes to be added to the engine.  Invoke this
// before starting the command-line driver.
func AddPass(p Pass) error {
	if _, ok := passes[p.Name]; ok {
		return fmt.Errorf("the short name %q is already associated with a pass", p.Name)
	}
	passes[p.Name] = p
	return nil
}

// A Config describes one compilation.
type Config struct {
	// Filename is used in diagnostics only.
	Filename string
	// Source is the program text.
	Source string
	// Optimize runs the full rewrite pipeline after borrow checking:
	// constprop, unused, unreachable, merge, then a cleanup unreachable
	// pass to collect blocks the merge drained.
	Optimize bool
	// Passes names individual passes to run instead of the full pipeline.
	Passes []string
}

// A Result holds everything a compilation produced.  MIR is nil when the
// log contains errors.
type Result struct {
	AST *ast.Function
	MIR *mir.Function
	Log *Log
}

// Compile runs the pipeline over one source function.  Every diagnosable
// error is fatal: the first one is logged and compilation stops.
func Compile(config *Config) *Result {
	result := &Result{Log: NewLog()}

	parsed, err := syntax.ParseFunction(config.Source)
	if err != nil {
		if serr, ok := err.(*syntax.Error); ok {
			result.Log.LogAt(Error, serr.Msg, config.Filename, serr.Pos)
		} else {
			result.Log.Log(Error, err.Error())
		}
		return result
	}

	typed, err := infer.Function(parsed)
	if err != nil {
		result.Log.Log(Error, err.Error())
		return result
	}
	result.AST = typed

	f := mir.Lower(typed).Analyse()
	if err := borrowck.Check(f); err != nil {
		result.Log.Log(Error, err.Error())
		return result
	}

	switch {
	case len(config.Passes) > 0:
		for _, name := range config.Passes {
			p, ok := GetPass(name)
			if !ok {
				result.Log.Log(Error, fmt.Sprintf("unknown pass %q", name))
				return result
			}
			p.Run(f)
		}
		f.Analyse()
	case config.Optimize:
		optimize.ConstantPropagation(f)
		optimize.RemoveUnusedVariables(f)
		optimize.RemoveUnreachable(f)
		f.ComputePredecessors()
		optimize.MergeBlocks(f)
		optimize.RemoveUnreachable(f)
		f.Analyse()
	}

	result.MIR = f
	return result
}
