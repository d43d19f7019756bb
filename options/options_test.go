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

package options

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestDefaultsWhenUnset(t *testing.T) {
	var o CompileOptions
	qt.Assert(t, qt.Equals(o.OptionalProbability(), DefaultOptionalFieldProbability))
	qt.Assert(t, qt.Equals(o.FieldRetryLimit(), DefaultRetryLimit))
	qt.Assert(t, qt.Equals(o.SchemaRetryLimit(), DefaultRetryLimit))
	qt.Assert(t, qt.Equals(o.DatasetRetryLimit(), DefaultRetryLimit))
	qt.Assert(t, qt.Equals(o.UniqueRetryLimit(), DefaultRetryLimit))
}

func TestRetryLimitsPartialOverride(t *testing.T) {
	o := CompileOptions{RetryLimits: &RetryLimits{Field: 5}}
	qt.Assert(t, qt.Equals(o.FieldRetryLimit(), 5))
	qt.Assert(t, qt.Equals(o.SchemaRetryLimit(), DefaultRetryLimit))
}

func TestOptionalProbabilityOverride(t *testing.T) {
	p := 0.9
	o := CompileOptions{OptionalFieldProbability: &p}
	qt.Assert(t, qt.Equals(o.OptionalProbability(), 0.9))
}

func TestFromYAML(t *testing.T) {
	doc := []byte(`
seed: 42
strict: true
optionalFieldProbability: 0.75
retryLimits:
  field: 10
  unique: 20
`)
	o, err := FromYAML(doc)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Not(qt.IsNil(o.Seed)))
	qt.Assert(t, qt.Equals(*o.Seed, int64(42)))
	qt.Assert(t, qt.Equals(o.Strict, true))
	qt.Assert(t, qt.Equals(o.OptionalProbability(), 0.75))
	qt.Assert(t, qt.Equals(o.FieldRetryLimit(), 10))
	qt.Assert(t, qt.Equals(o.UniqueRetryLimit(), 20))
	qt.Assert(t, qt.Equals(o.SchemaRetryLimit(), DefaultRetryLimit))
}

func TestFromYAMLInvalidDocument(t *testing.T) {
	_, err := FromYAML([]byte("seed: [this is not an int"))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}
