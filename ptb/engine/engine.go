// Package engine is the import/export façade: it orchestrates archive
// decoding, heuristic extraction and record association across all
// recognized members, and drives the inverse fixed-width encoder. The
// engine is stateless; every call owns its own buffers and returns a fresh
// result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	ptb "github.com/sageflow/ptbcodec/ptb"
	"github.com/sageflow/ptbcodec/ptb/archive"
	"github.com/sageflow/ptbcodec/ptb/assoc"
	"github.com/sageflow/ptbcodec/ptb/config"
	"github.com/sageflow/ptbcodec/ptb/entity"
	"github.com/sageflow/ptbcodec/ptb/export"
)

// ErrUnsupportedFormat means the container parsed but its manifest declares
// a format this engine cannot decode.
var ErrUnsupportedFormat = errors.New("engine: unsupported archive format")

// ErrRequiredMemberMissing means a kind listed in Options.RequiredKinds has
// no member in the archive. Without that option, absence is only a
// statistics entry.
var ErrRequiredMemberMissing = errors.New("engine: required member missing")

// ImportArchive decodes a PTB container from bytes into a normalized entity
// collection. Output is deterministic for byte-identical input and options.
// A corrupt container fails immediately with nothing returned; a
// well-formed-but-empty one returns empty lists with statistics reflecting
// zero extraction.
func ImportArchive(ctx context.Context, data []byte, opts config.Options) (*entity.Collection, error) {
	ar, err := archive.Open(data)
	if err != nil {
		return nil, err
	}

	if mdata, err := ar.Read(archive.ManifestMember); err == nil {
		m := archive.ParseManifest(mdata)
		switch m.Format {
		case ptb.FormatFixedWidth:
			// Our own exporter's output: positional decode, no heuristics.
			col, err := export.DecodeArchive(ar)
			if err != nil {
				return nil, err
			}
			if err := checkRequired(col, opts); err != nil {
				return nil, err
			}
			return col, nil
		case "", ptb.FormatName:
			// Legacy container or manifest-less backup: fall through to the
			// heuristic path.
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, m.Format)
		}
	}

	return importHeuristic(ctx, ar, opts)
}

func importHeuristic(ctx context.Context, ar *archive.Archive, opts config.Options) (*entity.Collection, error) {
	col := entity.NewCollection()

	members := make(map[entity.Kind][]byte)
	for _, kind := range entity.Kinds() {
		name, buf, ok := ar.FindMember(kind)
		if !ok {
			col.Stats.SourceAbsent[kind] = true
			continue
		}
		members[kind] = buf
		if opts.Debug {
			if fcr, ok := archive.ReadFCR(buf); ok {
				slog.Debug("member header probe",
					"member", name,
					"kind", kind,
					"record_count", fcr.RecordCount,
					"key_count", fcr.KeyCount)
			}
		}
	}

	if err := checkRequired(col, opts); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = min(max(runtime.NumCPU(), 2), len(entity.Kinds()))
	}

	// Each member decodes independently; results merge afterwards in the
	// declared kind order, never completion order.
	var mu sync.Mutex
	results := make(map[entity.Kind]assoc.Result, len(members))

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for kind, buf := range members {
		p.Go(func(ctx context.Context) error {
			r := assoc.New(assoc.SchemaFor(kind), opts).Assemble(ctx, buf)
			mu.Lock()
			results[kind] = r
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("decoding members: %w", err)
	}

	for _, kind := range entity.Kinds() {
		r, ok := results[kind]
		if !ok {
			continue
		}
		for _, e := range r.Entities {
			col.Add(e)
		}
		col.Stats.TokensSeen += r.TokensSeen
		col.Stats.CandidatesSeen += r.CandidatesSeen
		col.Stats.DuplicatesCollapsed += r.Collapsed
		col.Stats.Ambiguities += r.Ambiguities
		if opts.Debug {
			for _, d := range r.Diagnostics {
				slog.Debug("extraction diagnostic",
					"kind", d.Kind, "offset", d.Offset, "message", d.Message)
			}
		}
	}

	col.Stats.SummarizeAccounts(col.Of(entity.KindAccount))

	slog.Info("import complete",
		"members", len(members),
		"entities", col.Total(),
		"tokens", col.Stats.TokensSeen,
		"candidates", col.Stats.CandidatesSeen)

	return col, nil
}

func checkRequired(col *entity.Collection, opts config.Options) error {
	for _, kind := range opts.RequiredKinds {
		if col.Stats.SourceAbsent[kind] {
			return fmt.Errorf("%w: %s", ErrRequiredMemberMissing, kind)
		}
	}
	return nil
}

// ExportArchive serializes a collection into a fresh legacy-compatible
// container. Truncation events are documented behavior, reported in the
// returned stats rather than raised.
func ExportArchive(col *entity.Collection, companyName string) ([]byte, export.Stats, error) {
	if companyName == "" {
		companyName = ptb.DefaultAppName
	}
	return export.Build(col, companyName)
}
