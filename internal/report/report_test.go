package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/binaudit/litseek/internal/model"
	"github.com/binaudit/litseek/internal/report"

	"github.com/stretchr/testify/require"
)

func confirmed(text string, offset uint64, srcFile string, line uint32) model.ConfirmedLeak {
	return model.ConfirmedLeak{
		LeakedInformation: text,
		Location: model.LeakLocation{
			Source: model.SourceLocation{File: srcFile, Line: line},
			Binary: model.BinaryLocation{File: "bin/app", Offset: offset},
		},
	}
}

func TestAssemble(t *testing.T) {
	given := []model.ConfirmedLeak{
		confirmed(`"zeta"`, 5, "a.c", 1),
		confirmed(`"alpha"`, 300, "b.c", 2),
		confirmed(`"alpha"`, 100, "b.c", 2),
		confirmed(`"alpha"`, 100, "b.c", 2), // exact duplicate
	}

	got := report.Assemble(given)
	require.Len(t, got, 3)
	require.Equal(t, `"alpha"`, got[0].LeakedInformation)
	require.Equal(t, uint64(100), got[0].Location.Binary.Offset)
	require.Equal(t, uint64(300), got[1].Location.Binary.Offset)
	require.Equal(t, `"zeta"`, got[2].LeakedInformation)

	// pure function of its input, input untouched
	require.Equal(t, `"zeta"`, given[0].LeakedInformation)
	require.Equal(t, got, report.Assemble(given))
}

func TestAssembleEmpty(t *testing.T) {
	got := report.Assemble(nil)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteText(&buf, []model.ConfirmedLeak{
		confirmed(`"c_string"`, 0x1a4, "src/main.c", 42),
	})
	require.NoError(t, err)
	require.Equal(t,
		"\"c_string\" leaked at offset 0x1a4 in \"bin/app\" [declared at src/main.c:42]\n",
		buf.String(),
	)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteJSON(&buf, report.Assemble([]model.ConfirmedLeak{
		confirmed(`"b"`, 10, "a.c", 2),
		confirmed(`"a"`, 20, "a.c", 1),
	}))
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, report.FormatVersion, doc.Version.Format)
	require.NotEmpty(t, doc.Version.Executable)
	require.Len(t, doc.Leaks, 2)
	require.Equal(t, `"a"`, doc.Leaks[0].LeakedInformation)
	require.Equal(t, uint64(20), doc.Leaks[0].Location.Binary.Offset)
	require.Equal(t, uint32(1), doc.Leaks[0].Location.Source.Line)
}

func TestWriteJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, []model.ConfirmedLeak{
		confirmed(`"x"`, 7, "x.c", 3),
	}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Contains(t, raw, "version")
	require.Contains(t, raw, "leaks")

	leak := raw["leaks"].([]any)[0].(map[string]any)
	require.Contains(t, leak, "leaked_information")
	location := leak["location"].(map[string]any)
	require.Contains(t, location, "source")
	require.Contains(t, location, "binary")
	require.EqualValues(t, 7, location["binary"].(map[string]any)["offset"])
}

func TestWriteCycloneDX(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteCycloneDX(&buf, []model.ConfirmedLeak{
		confirmed(`"c_string"`, 100, "src/main.c", 3),
	})
	require.NoError(t, err)

	var bom map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bom))
	require.Equal(t, "CycloneDX", bom["bomFormat"])

	components := bom["components"].([]any)
	require.Len(t, components, 1)
	component := components[0].(map[string]any)
	require.Equal(t, `"c_string"`, component["name"])
	require.Equal(t, "data", component["type"])

	props := component["properties"].([]any)
	require.Len(t, props, 1)
	prop := props[0].(map[string]any)
	require.Equal(t, report.BinaryOffsetProperty, prop["name"])
	require.Equal(t, "100", prop["value"])
}
