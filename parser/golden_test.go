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

package parser

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rogpeppe/go-internal/txtar"

	"github.com/mcclowes/vague-sub003/ast"
)

// summarize reduces a Program to one "Kind Name" line per top-level
// declaration that carries a name, so a golden file stays readable and
// resilient to unrelated AST field changes.
func summarize(prog *ast.Program) string {
	var b strings.Builder
	for _, stmt := range prog.Statements {
		switch s := stmt.(type) {
		case *ast.SchemaDecl:
			fmt.Fprintf(&b, "SchemaDecl %s\n", s.Name)
		case *ast.ContextDecl:
			fmt.Fprintf(&b, "ContextDecl %s\n", s.Name)
		case *ast.DatasetDecl:
			fmt.Fprintf(&b, "DatasetDecl %s\n", s.Name)
		case *ast.DistributionDecl:
			fmt.Fprintf(&b, "DistributionDecl %s\n", s.Name)
		case *ast.LetDecl:
			fmt.Fprintf(&b, "LetDecl %s\n", s.Name)
		case *ast.ImportDecl:
			fmt.Fprintf(&b, "ImportDecl %s\n", s.Alias)
		}
	}
	return b.String()
}

func findTxtarFile(a *txtar.Archive, name string) ([]byte, bool) {
	for _, f := range a.Files {
		if f.Name == name {
			return f.Data, true
		}
	}
	return nil, false
}

// TestGoldenPrograms walks parser/testdata/*.txtar, parses each archive's
// "input.vague" file in recovery mode, and compares a structural summary of
// the resulting Program against "ast.golden".
func TestGoldenPrograms(t *testing.T) {
	err := filepath.WalkDir("testdata", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(path, ".txtar") {
			return nil
		}
		t.Run(path, func(t *testing.T) {
			a, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			input, ok := findTxtarFile(a, "input.vague")
			if !ok {
				t.Fatalf("%s: missing input.vague", path)
			}
			golden, ok := findTxtarFile(a, "ast.golden")
			if !ok {
				t.Fatalf("%s: missing ast.golden", path)
			}

			prog, _ := ParseFile(path, input, nil, Recover)
			if prog == nil {
				t.Fatalf("%s: ParseFile returned a nil program", path)
			}
			got := summarize(prog)
			if diff := cmp.Diff(string(golden), got); diff != "" {
				t.Errorf("%s: summary mismatch (-want +got):\n%s", path, diff)
			}
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// TestRecoveryDiagnosticCount checks spec.md §8 property 4: for k isolated
// top-level syntax errors, recovery mode yields at least k diagnostics while
// still producing a valid AST for the well-formed statements around them.
func TestRecoveryDiagnosticCount(t *testing.T) {
	a, err := txtar.ParseFile("testdata/recovery.txtar")
	if err != nil {
		t.Fatal(err)
	}
	input, ok := findTxtarFile(a, "input.vague")
	if !ok {
		t.Fatal("missing input.vague")
	}
	prog, err := ParseFile("recovery.vague", input, nil, Recover)
	if prog == nil {
		t.Fatal("ParseFile returned a nil program")
	}
	if err == nil {
		t.Fatal("expected a non-nil error listing the recovered diagnostics")
	}
	list, ok := err.(interface{ Len() int })
	if !ok {
		t.Fatalf("expected an errors.List, got %T", err)
	}
	if n := list.Len(); n < 2 {
		t.Errorf("got %d diagnostics, want at least 2", n)
	}
	if len(prog.Statements) != 3 {
		t.Errorf("got %d recovered statements, want 3", len(prog.Statements))
	}
}
