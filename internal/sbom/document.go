package sbom

import (
	"bytes"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/aleister1102/pulsegate/internal/common"
)

// Document is a decoded CycloneDX BOM.
type Document struct {
	bom *cdx.BOM
}

// ParseDocument decodes a CycloneDX JSON document. The bomFormat and
// specVersion fields are required.
func ParseDocument(data []byte) (*Document, error) {
	bom := new(cdx.BOM)
	if err := cdx.NewBOMDecoder(bytes.NewReader(data), cdx.BOMFileFormatJSON).Decode(bom); err != nil {
		return nil, common.WrapErrorf(common.ErrReportParseFailed, "invalid SBOM: %v", err)
	}
	if bom.BOMFormat != cdx.BOMFormat {
		return nil, common.WrapErrorf(common.ErrReportParseFailed, "invalid SBOM: bomFormat is %q", bom.BOMFormat)
	}
	if bom.SpecVersion == 0 {
		return nil, common.WrapErrorf(common.ErrReportParseFailed, "invalid SBOM: specVersion is not set")
	}
	return &Document{bom: bom}, nil
}

func (d *Document) ComponentCount() int {
	if d.bom.Components == nil {
		return 0
	}
	return len(*d.bom.Components)
}

// ComponentNames lists top-level component names in document order.
func (d *Document) ComponentNames() []string {
	if d.bom.Components == nil {
		return nil
	}
	names := make([]string, 0, len(*d.bom.Components))
	for _, c := range *d.bom.Components {
		names = append(names, c.Name)
	}
	return names
}

// ExcludeComponents drops every top-level component whose lower-cased,
// trimmed name contains one of patterns and returns the removed names.
func (d *Document) ExcludeComponents(patterns []string) []string {
	normalized := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			normalized = append(normalized, p)
		}
	}
	if len(normalized) == 0 || d.bom.Components == nil {
		return nil
	}

	var removed []string
	kept := make([]cdx.Component, 0, len(*d.bom.Components))
	for _, c := range *d.bom.Components {
		if matchesAny(strings.ToLower(strings.TrimSpace(c.Name)), normalized) {
			removed = append(removed, c.Name)
			continue
		}
		kept = append(kept, c)
	}
	d.bom.Components = &kept
	return removed
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Marshal renders the document as pretty-printed JSON.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := cdx.NewBOMEncoder(&buf, cdx.BOMFileFormatJSON)
	enc.SetPretty(true)
	if err := enc.Encode(d.bom); err != nil {
		return nil, common.WrapError(err, "failed to encode SBOM")
	}
	return buf.Bytes(), nil
}
