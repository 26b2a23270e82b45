package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ManifestMember is the name of the plain-text metadata member written into
// every exported container.
const ManifestMember = "MANIFEST.TXT"

// Manifest records export metadata as key=value lines. Recognized keys are
// Name, Version, ExportDate (ISO-8601) and Format; ExportID is written for
// traceability and ignored by older readers.
type Manifest struct {
	Name       string
	Version    string
	ExportDate time.Time
	Format     string
	ExportID   string
}

// NewManifest builds a manifest stamped with the current time and a fresh
// export ID.
func NewManifest(name, version, format string) Manifest {
	return Manifest{
		Name:       name,
		Version:    version,
		ExportDate: time.Now().UTC(),
		Format:     format,
		ExportID:   uuid.New().String(),
	}
}

// Encode renders the manifest as CRLF-terminated key=value lines.
func (m Manifest) Encode() []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name=%s\r\n", m.Name)
	fmt.Fprintf(&sb, "Version=%s\r\n", m.Version)
	fmt.Fprintf(&sb, "ExportDate=%s\r\n", m.ExportDate.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Format=%s\r\n", m.Format)
	if m.ExportID != "" {
		fmt.Fprintf(&sb, "ExportID=%s\r\n", m.ExportID)
	}
	return []byte(sb.String())
}

// ParseManifest decodes key=value lines. Unknown keys are skipped; a missing
// or malformed ExportDate leaves the zero time rather than failing, since a
// readable manifest is never required for import.
func ParseManifest(data []byte) Manifest {
	var m Manifest
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "Name":
			m.Name = val
		case "Version":
			m.Version = val
		case "ExportDate":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				m.ExportDate = t
			}
		case "Format":
			m.Format = val
		case "ExportID":
			m.ExportID = val
		}
	}
	return m
}
