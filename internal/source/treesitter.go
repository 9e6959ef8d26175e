package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/binaudit/litseek/internal/compiledb"
)

// TreeSitterProvider extracts string literals with the tree-sitter C and C++
// grammars, selected by file extension.
//
// The backend parses single files without preprocessing: -I and -D arguments
// of a compile command are accepted but do not affect parsing, literals
// pulled in through #include are only seen when the header itself is listed
// as a translation unit, InSystemHeader is never set, and raw string
// literals are not matched (they carry no escape sequences to transcode).
type TreeSitterProvider struct{}

const literalQuery = `(string_literal) @lit`

func (TreeSitterProvider) Literals(ctx context.Context, cmd compiledb.CompileCommand) ([]Literal, error) {
	path := cmd.Path()
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}

	lang := languageFor(path)
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing source file %s: %w", path, err)
	}
	defer tree.Close()

	query, err := sitter.NewQuery([]byte(literalQuery), lang)
	if err != nil {
		return nil, fmt.Errorf("compiling literal query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	var literals []Literal
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			node := capture.Node
			literals = append(literals, Literal{
				Text: node.Content(src),
				File: path,
				Line: node.StartPoint().Row + 1,
			})
		}
	}
	return literals, nil
}

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".h":
		return tsc.GetLanguage()
	default:
		return cpp.GetLanguage()
	}
}
