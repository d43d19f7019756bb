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

package builtin

import (
	"github.com/google/uuid"

	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

// rngReader adapts a *prng.Source to io.Reader so uuid.NewRandomFromReader
// draws its 16 bytes from the compilation's own seeded source, keeping
// uuid() output deterministic under a seed like every other generator.
type rngReader struct{ rng *prng.Source }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Intn(256))
	}
	return len(p), nil
}

func installIdentity(p *registry.Plugins, rng *prng.Source) {
	p.Register("uuid", uuidFn(rng))
}

func uuidFn(rng *prng.Source) registry.Func {
	return func(_ []registry.Arg, _ registry.Context) (value.Value, error) {
		id, err := uuid.NewRandomFromReader(rngReader{rng: rng})
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	}
}
