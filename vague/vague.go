// Copyright 2026 The Vague Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vague is the top-level entry point: it wires the scanner, parser,
// built-in and imported-schema registries, and the generator together into
// one Compile call, the way cuelang.org/go/cue wires its own scanner/parser/
// runtime behind a single Context.
package vague

import (
	"github.com/mcclowes/vague-sub003/builtin"
	"github.com/mcclowes/vague-sub003/errors"
	"github.com/mcclowes/vague-sub003/internal/eval"
	"github.com/mcclowes/vague-sub003/internal/generate"
	"github.com/mcclowes/vague-sub003/options"
	"github.com/mcclowes/vague-sub003/parser"
	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

// Result is the outcome of one Compile call: the generated dataset plus any
// non-fatal warnings collected along the way.
type Result struct {
	Dataset   value.Dataset
	collector *errors.Collector
}

// Warnings returns every non-fatal diagnostic raised during generation.
func (r *Result) Warnings() []errors.Warning {
	return r.collector.Warnings()
}

// Builtins installs every core built-in generator (math, string, date,
// distribution, predicate, sequence, text, identity, aggregate) into a fresh
// plugin registry, the way a caller would before layering their own plugins
// on top with Plugins.Register.
func Builtins(rng *prng.Source) *registry.Plugins {
	p := registry.NewPlugins()
	builtin.NewRegistry(rng).Install(p)
	return p
}

// Compile parses source, runs the dataset named datasetName (or the first
// dataset declared, if datasetName is ""), and returns the generated
// records plus any warnings. plugins and imported may be nil, in which case
// a registry preloaded with only the core built-ins (and no imported
// schemas) is used.
func Compile(source []byte, opts options.CompileOptions, plugins *registry.Plugins, imported *registry.ImportedSchemas, datasetName string) (*Result, error) {
	// One Source per compilation, shared by every built-in and the
	// evaluator: a second instance re-seeded the same way would replay the
	// same sequence independently instead of interleaving draws with the
	// rest of generation, breaking the single-seed determinism spec.md §5
	// requires.
	rng := prng.New(opts.Seed)
	if plugins == nil {
		plugins = Builtins(rng)
	}
	if imported == nil {
		imported = registry.NewImportedSchemas()
	}

	program, err := parser.ParseFile("input.vague", source, plugins.Keywords(), parser.Recover)
	if err != nil {
		return nil, err
	}

	collector := errors.NewCollector(opts.Logger)
	ctx := eval.NewContext(rng, collector, plugins, imported)

	gen, err := generate.New(ctx, opts, program)
	if err != nil {
		return nil, err
	}

	dataset := generate.FindDataset(program, datasetName)
	if dataset == nil {
		return nil, errors.NewResolutionError(program.Position(), []string{datasetName}, "no dataset declaration found")
	}

	out, err := gen.GenerateDataset(dataset)
	if err != nil {
		return nil, err
	}
	return &Result{Dataset: out, collector: collector}, nil
}
