package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/binaudit/litseek/internal/compiledb"
	"github.com/binaudit/litseek/internal/source"

	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, name, content string) compiledb.CompileCommand {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return compiledb.CompileCommand{Filename: path}
}

func TestTreeSitterLiteralsC(t *testing.T) {
	cmd := writeSource(t, "main.c", `#include <stdio.h>

const char *plain = "c_string";
const char *fmt = "%s\n";

int main(void) {
    printf("%s\n", plain);
    return 0;
}
`)

	var provider source.TreeSitterProvider
	literals, err := provider.Literals(t.Context(), cmd)
	require.NoError(t, err)

	texts := make([]string, 0, len(literals))
	for _, lit := range literals {
		texts = append(texts, lit.Text)
		require.Equal(t, cmd.Path(), lit.File)
		require.False(t, lit.InSystemHeader)
	}
	require.Equal(t, []string{`"c_string"`, `"%s\n"`, `"%s\n"`}, texts)

	require.Equal(t, uint32(3), literals[0].Line)
	require.Equal(t, uint32(4), literals[1].Line)
	require.Equal(t, uint32(7), literals[2].Line)
}

func TestTreeSitterLiteralsCpp(t *testing.T) {
	cmd := writeSource(t, "main.cc", `const char *narrow = "c_string";
const char *utf8 = u8"utf8_string";
const wchar_t *wide = L"wide_string";
const char16_t *utf16 = u"utf16_string";
const char32_t *utf32 = U"utf32_string";
`)

	var provider source.TreeSitterProvider
	literals, err := provider.Literals(t.Context(), cmd)
	require.NoError(t, err)

	texts := make([]string, 0, len(literals))
	for _, lit := range literals {
		texts = append(texts, lit.Text)
	}
	require.Equal(t, []string{
		`"c_string"`,
		`u8"utf8_string"`,
		`L"wide_string"`,
		`u"utf16_string"`,
		`U"utf32_string"`,
	}, texts)
}

func TestTreeSitterMissingFile(t *testing.T) {
	var provider source.TreeSitterProvider
	cmd := compiledb.CompileCommand{Filename: filepath.Join(t.TempDir(), "gone.c")}
	_, err := provider.Literals(t.Context(), cmd)
	require.Error(t, err)
}
