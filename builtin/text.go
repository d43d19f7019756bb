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
	"strings"

	"github.com/mcclowes/vague-sub003/prng"
	"github.com/mcclowes/vague-sub003/registry"
	"github.com/mcclowes/vague-sub003/value"
)

// chain is an order-2 Markov chain over single-character transitions,
// trained once at package init from a small seed corpus per category. It
// is the fallback generator for string fields that declare no explicit
// generator, per spec.md §4.6.
type chain struct {
	starts []string          // observed two-character prefixes that began a training word
	trans  map[string][]byte // prefix -> possible next bytes (with repeats, weighting by frequency)
	ends   map[string]bool   // prefixes after which a word may legally terminate
	minLen int
	maxLen int
}

func newChain(corpus []string) *chain {
	c := &chain{trans: make(map[string][]byte), ends: make(map[string]bool), minLen: 1 << 30}
	for _, word := range corpus {
		w := "##" + word
		if len(word) < c.minLen {
			c.minLen = len(word)
		}
		if len(word) > c.maxLen {
			c.maxLen = len(word)
		}
		c.starts = append(c.starts, w[:2])
		for i := 0; i+2 < len(w); i++ {
			prefix := w[i : i+2]
			c.trans[prefix] = append(c.trans[prefix], w[i+2])
		}
		c.ends[w[len(w)-2:]] = true
	}
	return c
}

func (c *chain) generate(rng *prng.Source) string {
	if len(c.starts) == 0 {
		return ""
	}
	prefix := c.starts[rng.Intn(len(c.starts))]
	var b strings.Builder
	for i := 0; i < c.maxLen+8; i++ {
		next, ok := c.trans[prefix]
		if !ok || len(next) == 0 {
			break
		}
		ch := next[rng.Intn(len(next))]
		b.WriteByte(ch)
		prefix = prefix[1:] + string(ch)
		if c.ends[prefix] && b.Len() >= c.minLen && rng.Bool() {
			break
		}
	}
	return b.String()
}

var (
	wordChain    = newChain(wordCorpus)
	companyChain = newChain(companyCorpus)
	productChain = newChain(productCorpus)
	nameChain    = newChain(nameCorpus)
)

var wordCorpus = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel",
	"india", "juliet", "kilo", "lima", "mike", "november", "oscar", "papa",
	"quebec", "romeo", "sierra", "tango", "uniform", "victor", "whiskey",
	"yankee", "zulu", "market", "vector", "signal", "pattern", "bundle",
}

var companyCorpus = []string{
	"acme", "globex", "initech", "umbrella", "hooli", "stark", "wayne",
	"cyberdyne", "soylent", "massive", "vandelay", "wernham", "sterling",
	"gringotts", "oceanic", "pied piper", "aperture", "black mesa",
}

var productCorpus = []string{
	"widget", "gadget", "gizmo", "doohickey", "thingamajig", "contraption",
	"module", "bracket", "fastener", "adapter", "sensor", "cartridge",
}

var nameCorpus = []string{
	"john", "jane", "alex", "sam", "chris", "pat", "morgan", "taylor",
	"jordan", "casey", "riley", "drew", "avery", "quinn", "reese", "skyler",
}

func installText(p *registry.Plugins, rng *prng.Source) {
	p.Register("word", textFn(wordChain, rng))
	p.Register("company", textFn(companyChain, rng))
	p.Register("product", textFn(productChain, rng))
	p.Register("name", textFn(nameChain, rng))
}

func textFn(c *chain, rng *prng.Source) registry.Func {
	return func(_ []registry.Arg, _ registry.Context) (value.Value, error) {
		return c.generate(rng), nil
	}
}
