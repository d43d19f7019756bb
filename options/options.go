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

// Package options defines CompileOptions, the small configuration surface
// spec.md §6 describes, and a YAML loader for it so callers can keep
// per-environment compilation settings in a config file rather than
// wiring literals into calling code.
package options

import (
	"log/slog"

	"gopkg.in/yaml.v3"
)

// RetryLimits overrides the default retry budgets (100 everywhere, per
// spec.md §5). A zero field means "use the default".
type RetryLimits struct {
	Field   int `yaml:"field,omitempty"`
	Schema  int `yaml:"schema,omitempty"`
	Dataset int `yaml:"dataset,omitempty"`
	Unique  int `yaml:"unique,omitempty"`
}

// DefaultRetryLimit is the retry budget spec.md §5 assigns to every retry
// loop (field-constraint, schema assume, dataset validate, unique value)
// absent an override.
const DefaultRetryLimit = 100

// DefaultOptionalFieldProbability is the chance an `optional` field is
// included in a record when not forced in by `when`.
const DefaultOptionalFieldProbability = 0.5

// CompileOptions is the full set of knobs a single Compile call accepts.
type CompileOptions struct {
	Seed                     *int64       `yaml:"seed,omitempty"`
	Strict                   bool         `yaml:"strict,omitempty"`
	OptionalFieldProbability *float64     `yaml:"optionalFieldProbability,omitempty"`
	RetryLimits              *RetryLimits `yaml:"retryLimits,omitempty"`

	// Logger receives warning-level diagnostics for this compilation.
	// Defaults to slog.Default() when nil.
	Logger *slog.Logger `yaml:"-"`
}

// FromYAML decodes a YAML document into a CompileOptions.
func FromYAML(data []byte) (CompileOptions, error) {
	var opts CompileOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return CompileOptions{}, err
	}
	return opts, nil
}

// OptionalProbability returns the configured optional-field inclusion
// probability, or the default.
func (o CompileOptions) OptionalProbability() float64 {
	if o.OptionalFieldProbability != nil {
		return *o.OptionalFieldProbability
	}
	return DefaultOptionalFieldProbability
}

func (o CompileOptions) limit(get func(RetryLimits) int) int {
	if o.RetryLimits != nil {
		if n := get(*o.RetryLimits); n > 0 {
			return n
		}
	}
	return DefaultRetryLimit
}

// FieldRetryLimit returns the per-field where-clause retry budget.
func (o CompileOptions) FieldRetryLimit() int {
	return o.limit(func(r RetryLimits) int { return r.Field })
}

// SchemaRetryLimit returns the per-schema assume-clause retry budget.
func (o CompileOptions) SchemaRetryLimit() int {
	return o.limit(func(r RetryLimits) int { return r.Schema })
}

// DatasetRetryLimit returns the dataset-validation retry budget.
func (o CompileOptions) DatasetRetryLimit() int {
	return o.limit(func(r RetryLimits) int { return r.Dataset })
}

// UniqueRetryLimit returns the unique()-value exhaustion retry budget.
func (o CompileOptions) UniqueRetryLimit() int {
	return o.limit(func(r RetryLimits) int { return r.Unique })
}
