package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	ptb "github.com/sageflow/ptbcodec/ptb"
	"github.com/sageflow/ptbcodec/ptb/archive"
	"github.com/sageflow/ptbcodec/ptb/entity"
)

// Stats counts what happened during one export pass.
type Stats struct {
	Members     int
	Records     int
	Truncations int
}

// Build serializes a collection into a fresh container: one fixed-width
// member plus one CSV companion per populated kind, and the plain-text
// manifest. Field values wider than their column are truncated silently per
// the padding contract; each truncation is counted, never raised.
func Build(col *entity.Collection, companyName string) ([]byte, Stats, error) {
	var stats Stats
	b := archive.NewBuilder()

	manifest := archive.NewManifest(companyName, ptb.DefaultAppVersion, ptb.FormatFixedWidth)
	b.Add(archive.ManifestMember, manifest.Encode())

	for _, kind := range entity.Kinds() {
		entities := col.Of(kind)
		if len(entities) == 0 {
			continue
		}
		layout := LayoutFor(kind)
		b.Add(layout.Member, encodeMember(layout, entities, &stats))
		b.Add(csvMemberName(kind), encodeCSV(layout, entities))
		stats.Members++
		stats.Records += len(entities)
	}

	data, err := b.Bytes()
	if err != nil {
		return nil, stats, fmt.Errorf("packaging export archive: %w", err)
	}

	slog.Debug("export archive built",
		"members", stats.Members,
		"records", stats.Records,
		"truncations", stats.Truncations,
		"bytes", len(data))

	return data, stats, nil
}

// encodeMember renders one fixed-width member: one CRLF-terminated record
// per entity.
func encodeMember(layout Layout, entities []entity.Entity, stats *Stats) []byte {
	var buf bytes.Buffer
	for _, e := range entities {
		for _, col := range layout.Columns {
			buf.WriteString(pad(fieldValue(e, col.Name), col.Width, stats))
		}
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

// pad right-pads with spaces to width, truncating longer values.
func pad(val string, width int, stats *Stats) string {
	if len(val) > width {
		stats.Truncations++
		return val[:width]
	}
	return val + strings.Repeat(" ", width-len(val))
}
