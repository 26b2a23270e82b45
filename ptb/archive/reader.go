package archive

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sageflow/ptbcodec/ptb/entity"
)

var (
	// ErrCorruptArchive means the input bytes are not a valid ZIP-format
	// container. Fatal: nothing is returned alongside it.
	ErrCorruptArchive = errors.New("archive: not a valid PTB container")

	// ErrMemberNotFound means a named member is absent from the container.
	ErrMemberNotFound = errors.New("archive: member not found")
)

// DataSuffix is the extension carried by the legacy data members.
const DataSuffix = ".DAT"

// Archive is an immutable, in-memory view over the members of a PTB
// container. It is read once on open; no further I/O happens afterwards.
type Archive struct {
	order   []string
	members map[string][]byte
}

// Open decodes a ZIP-format container from bytes. All member contents are
// materialized up front so later reads cannot fail on I/O.
func Open(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	a := &Archive{members: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening member %s: %v", ErrCorruptArchive, f.Name, err)
		}
		buf, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading member %s: %v", ErrCorruptArchive, f.Name, err)
		}
		if _, dup := a.members[f.Name]; !dup {
			a.order = append(a.order, f.Name)
		}
		a.members[f.Name] = buf
	}
	return a, nil
}

// Members returns the member names in container order.
func (a *Archive) Members() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of members.
func (a *Archive) Len() int {
	return len(a.order)
}

// Read returns the content of a named member.
func (a *Archive) Read(name string) ([]byte, error) {
	buf, ok := a.members[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}
	return buf, nil
}

// MemberKind reports which entity kind a member name carries. The legacy
// naming convention is a domain keyword in the base name plus the data-file
// suffix, matched case-insensitively.
func MemberKind(name string) (entity.Kind, bool) {
	base := strings.ToUpper(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if !strings.HasSuffix(base, DataSuffix) {
		return "", false
	}
	switch {
	case strings.Contains(base, "CUSTOMER"):
		return entity.KindCustomer, true
	case strings.Contains(base, "VEND"), strings.Contains(base, "SUPPLIER"):
		return entity.KindVendor, true
	case strings.Contains(base, "ADDRESS"):
		return entity.KindAddress, true
	case strings.Contains(base, "CHART"):
		return entity.KindAccount, true
	case strings.Contains(base, "ITEM"):
		return entity.KindItem, true
	}
	return "", false
}

// FindMember returns the first member recognized as the given kind.
func (a *Archive) FindMember(kind entity.Kind) (string, []byte, bool) {
	for _, name := range a.order {
		if k, ok := MemberKind(name); ok && k == kind {
			return name, a.members[name], true
		}
	}
	return "", nil, false
}

// FCRInfo summarizes the Btrieve file control record at the head of a data
// member. The offsets were recovered empirically: record count lives at
// 0x1C, key count at 0x14.
type FCRInfo struct {
	RecordCount uint32
	KeyCount    uint16
}

// ReadFCR probes a data member's 512-byte header. Reported for diagnostics
// only; the extraction heuristics never trust the record count.
func ReadFCR(buf []byte) (FCRInfo, bool) {
	if len(buf) < 0x20 {
		return FCRInfo{}, false
	}
	return FCRInfo{
		RecordCount: binary.LittleEndian.Uint32(buf[0x1C:0x20]),
		KeyCount:    binary.LittleEndian.Uint16(buf[0x14:0x16]),
	}, true
}
