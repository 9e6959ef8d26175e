package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"

	"github.com/binaudit/litseek/internal/model"
)

// BinaryOffsetProperty carries the byte offset of a leak inside the scanned
// binary on its CycloneDX component.
const BinaryOffsetProperty = "litseek:leak:binary_offset"

// WriteCycloneDX emits the confirmed leaks as a CycloneDX 1.6 BOM, one data
// component per leak with the source declaration and binary location as
// evidence occurrences.
func WriteCycloneDX(w io.Writer, leaks []model.ConfirmedLeak) error {
	// the schema does not allow a null component list
	components := make([]cdx.Component, 0, len(leaks))
	for i, leak := range leaks {
		components = append(components, leakComponent(i, leak))
	}

	bom := cdx.BOM{
		JSONSchema:   "https://cyclonedx.org/schema/bom-1.6.schema.json",
		BOMFormat:    "CycloneDX",
		SpecVersion:  cdx.SpecVersion1_6,
		SerialNumber: "urn:uuid:" + uuid.New().String(),
		Version:      1,
		Metadata: &cdx.Metadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Component: &cdx.Component{
				Type:    cdx.ComponentTypeApplication,
				Name:    "litseek",
				Version: executableVersion,
			},
		},
		Components: &components,
	}
	return cdx.NewBOMEncoder(w, cdx.BOMFileFormatJSON).SetPretty(true).Encode(&bom)
}

func leakComponent(idx int, leak model.ConfirmedLeak) cdx.Component {
	line := int(leak.Location.Source.Line)
	return cdx.Component{
		BOMRef:      fmt.Sprintf("leak/%d", idx),
		Type:        cdx.ComponentTypeData,
		Name:        leak.LeakedInformation,
		Description: fmt.Sprintf("string literal found in %s", leak.Location.Binary.File),
		Properties: &[]cdx.Property{
			{
				Name:  BinaryOffsetProperty,
				Value: strconv.FormatUint(leak.Location.Binary.Offset, 10),
			},
		},
		Evidence: &cdx.Evidence{
			Occurrences: &[]cdx.EvidenceOccurrence{
				{Location: leak.Location.Source.File, Line: &line},
				{Location: leak.Location.Binary.File},
			},
		},
	}
}
