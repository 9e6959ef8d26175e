package catalog_test

import (
	"strings"
	"testing"

	"github.com/binaudit/litseek/internal/catalog"
	"github.com/binaudit/litseek/internal/source"
	"github.com/binaudit/litseek/internal/suppress"

	"github.com/stretchr/testify/require"
)

func occurrence(text, file string, line uint32) source.Literal {
	return source.Literal{Text: text, File: file, Line: line}
}

func TestMergeDuplicateDeclarations(t *testing.T) {
	occurrences := []source.Literal{
		occurrence(`"c_string"`, "a.c", 10),
		occurrence(`"c_string"`, "b.c", 20),
		occurrence(`"other"`, "a.c", 11),
	}

	t.Run("enabled keeps first encountered", func(t *testing.T) {
		b := catalog.NewBuilder(catalog.Config{MergeDuplicates: true}, nil)
		b.Add(t.Context(), occurrences...)
		leaks := b.Leaks()
		require.Len(t, leaks, 2)
		require.Equal(t, `"c_string"`, leaks[0].LeakedInformation)
		require.Equal(t, "a.c", leaks[0].File)
		require.Equal(t, uint32(10), leaks[0].Line)
		require.Equal(t, `"other"`, leaks[1].LeakedInformation)
	})

	t.Run("disabled keeps every occurrence", func(t *testing.T) {
		b := catalog.NewBuilder(catalog.Config{}, nil)
		b.Add(t.Context(), occurrences...)
		leaks := b.Leaks()
		require.Len(t, leaks, 3)
		require.Equal(t, "a.c", leaks[0].File)
		require.Equal(t, "b.c", leaks[1].File)
	})
}

func TestSystemHeaderExclusion(t *testing.T) {
	occurrences := []source.Literal{
		{Text: `"from_sys"`, File: "/usr/include/x.h", Line: 1, InSystemHeader: true},
		{Text: `"from_user"`, File: "main.c", Line: 2},
	}

	b := catalog.NewBuilder(catalog.Config{}, nil)
	b.Add(t.Context(), occurrences...)
	require.Len(t, b.Leaks(), 1)
	require.Equal(t, `"from_user"`, b.Leaks()[0].LeakedInformation)

	b = catalog.NewBuilder(catalog.Config{IncludeSystemHeaders: true}, nil)
	b.Add(t.Context(), occurrences...)
	require.Len(t, b.Leaks(), 2)
}

func TestSuppressions(t *testing.T) {
	rules, err := suppress.Load(strings.NewReader(`
files:
  - "third_party/**"
artifacts:
  - '"ignored_artifact"'
`))
	require.NoError(t, err)

	b := catalog.NewBuilder(catalog.Config{}, rules)
	b.Add(t.Context(),
		// would transcode fine, but its file is suppressed
		occurrence(`"in_vendored_code"`, "third_party/zlib/inflate.c", 5),
		// suppressed by exact text, regardless of declaring file
		occurrence(`"ignored_artifact"`, "main.c", 6),
		occurrence(`"kept"`, "main.c", 7),
	)

	leaks := b.Leaks()
	require.Len(t, leaks, 1)
	require.Equal(t, `"kept"`, leaks[0].LeakedInformation)
}

func TestTranscodeFailureIsDropped(t *testing.T) {
	b := catalog.NewBuilder(catalog.Config{}, nil)
	b.Add(t.Context(),
		occurrence(`"dangling\"`, "main.c", 1), // trailing backslash
		occurrence(`R"(raw)"`, "main.c", 2),   // unknown prefix
		occurrence(`"fine"`, "main.c", 3),
	)

	leaks := b.Leaks()
	require.Len(t, leaks, 1)
	require.Equal(t, `"fine"`, leaks[0].LeakedInformation)
	require.Equal(t, []byte("fine"), leaks[0].Bytes)
}

func TestBytesMatchTranscoder(t *testing.T) {
	b := catalog.NewBuilder(catalog.Config{}, nil)
	b.Add(t.Context(), occurrence(`L"ab"`, "main.c", 1))
	require.Len(t, b.Leaks(), 1)
	require.Equal(t, []byte{0x61, 0x00, 0x62, 0x00}, b.Leaks()[0].Bytes)
}
