package export

import (
	"strings"

	"github.com/sageflow/ptbcodec/ptb/archive"
	"github.com/sageflow/ptbcodec/ptb/entity"
)

// DecodeArchive rebuilds a collection from an archive this engine exported.
// Fixed-width members are positional, so decoding is exact: per-kind entity
// counts and identifying codes survive unchanged, which is the round-trip
// contract the encoder is held to.
func DecodeArchive(ar *archive.Archive) (*entity.Collection, error) {
	col := entity.NewCollection()

	for _, kind := range entity.Kinds() {
		layout := LayoutFor(kind)
		data, err := ar.Read(layout.Member)
		if err != nil {
			col.Stats.SourceAbsent[kind] = true
			continue
		}
		for _, e := range decodeMember(layout, kind, data) {
			col.Add(e)
		}
	}

	col.Stats.SummarizeAccounts(col.Of(entity.KindAccount))
	return col, nil
}

// decodeMember splits a fixed-width member into entities. Short or empty
// trailing lines are skipped rather than failing; the member is our own
// output, but tolerating manual edits costs nothing. An all-space line of
// full width is a record whose fields are all empty, so only length is
// checked.
func decodeMember(layout Layout, kind entity.Kind, data []byte) []entity.Entity {
	var out []entity.Entity
	for _, line := range strings.Split(string(data), "\r\n") {
		if len(line) < layout.Width() {
			continue
		}
		e := entity.Entity{Kind: kind}
		pos := 0
		for _, col := range layout.Columns {
			setField(&e, col.Name, strings.TrimSpace(line[pos:pos+col.Width]))
			pos += col.Width
		}
		out = append(out, e)
	}
	return out
}
