// Package assoc combines extracted tokens and numeric candidates into
// structured records using positional heuristics: role assignment, bounded
// window searches, marker-proximity tie-breaks, and duplicate collapsing.
package assoc

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/RoaringBitmap/roaring"
	assert "github.com/ZanzyTHEbar/assert-lib"

	"github.com/sageflow/ptbcodec/ptb/config"
	"github.com/sageflow/ptbcodec/ptb/entity"
	"github.com/sageflow/ptbcodec/ptb/scan"
)

// Diagnostic records one heuristic decision worth surfacing when debug is
// requested. Ambiguities never abort a run.
type Diagnostic struct {
	Kind    entity.Kind
	Offset  int
	Message string
}

// Result holds the assembled records for one member buffer plus the
// counters feeding extraction statistics.
type Result struct {
	Entities    []entity.Entity
	Diagnostics []Diagnostic

	TokensSeen     int
	CandidatesSeen int
	Collapsed      int
	Ambiguities    int
}

// Associator assembles entity records from a single member buffer. One
// instance serves one buffer; it holds no state across calls to Assemble.
type Associator struct {
	schema     Schema
	opts       config.Options
	classifier *entity.Classifier
	asserts    *assert.AssertHandler
}

// New creates an associator for one file kind.
func New(schema Schema, opts config.Options) *Associator {
	if opts.Window <= 0 {
		opts.Window = config.DefaultWindow
	}
	return &Associator{
		schema:     schema,
		opts:       opts,
		classifier: entity.NewClassifier(),
		asserts:    assert.NewAssertHandler(),
	}
}

// record accumulates role tokens for one entity while walking the buffer.
type record struct {
	code    string
	codeOff int
	name    string
	nameOff int
	lastEnd int // offset just past the most recent contributing token

	balance  float64
	cost     float64
	price    float64
	anchored bool
}

// Assemble runs the full association pass: tokenize, scan for candidates,
// assign roles, attach balances, collapse duplicates, synthesize missing
// codes.
func (a *Associator) Assemble(ctx context.Context, buf []byte) Result {
	var res Result

	tokens := scan.Tokens(buf, a.opts.MinTokenLen, a.opts.MaxTokenLen)
	res.TokensSeen = len(tokens)

	// Bitmap of candidate offsets. The window search consults it before
	// paying for a localized rescan, so token-dense buffers with no money
	// nearby stay cheap. It is built with the union of the coarse and tight
	// bounds: a balance only the tight rescan accepts must still have an
	// index entry, or the pre-check would hide it. The candidate counter
	// reports the coarse subset only.
	offsets := roaring.New()
	for _, c := range scan.Doubles(buf, scan.WideBounds) {
		if scan.CoarseBounds.Contains(math.Abs(c.Value)) {
			res.CandidatesSeen++
		}
		offsets.Add(uint32(c.Offset))
	}

	markers := a.markerOffsets(tokens)

	var records []record
	var cur *record
	flush := func() {
		if cur == nil {
			return
		}
		if cur.code != "" || cur.name != "" {
			a.attachMoney(buf, offsets, cur)
			records = append(records, *cur)
		}
		cur = nil
	}

	for _, t := range tokens {
		text := strings.TrimSpace(t.Text)
		if text == "" || a.isMarker(text) {
			continue
		}

		isCode := IsCode(text)
		if !isCode && !a.keep(text) {
			continue
		}

		if cur != nil && t.Offset-cur.lastEnd > a.opts.Window {
			flush()
		}
		if cur == nil {
			cur = &record{codeOff: -1, nameOff: -1}
		}

		if isCode {
			a.assignCode(cur, text, t.Offset, markers, &res)
		} else {
			a.assignName(cur, text, t.Offset, markers, &res)
		}
		cur.lastEnd = t.Offset + len(t.Text)
	}
	flush()

	records = a.collapse(records, &res)

	res.Entities = make([]entity.Entity, 0, len(records))
	for i, r := range records {
		e := a.toEntity(r, i+1)
		// Identifying codes are non-empty after assembly, synthesized when
		// the source lacked one.
		a.asserts.Assert(ctx, e.Code != "", "assembled entity has empty code")
		res.Entities = append(res.Entities, e)
	}

	slog.Debug("association pass complete",
		"kind", a.schema.Kind,
		"tokens", res.TokensSeen,
		"candidates", res.CandidatesSeen,
		"records", len(res.Entities),
		"collapsed", res.Collapsed)

	return res
}

func (a *Associator) keep(text string) bool {
	if a.opts.StrictFilters {
		return scan.KeepTokenStrict(text)
	}
	return scan.KeepToken(text)
}

func (a *Associator) isMarker(text string) bool {
	return a.schema.SectionMarker != "" &&
		strings.EqualFold(text, a.schema.SectionMarker)
}

// assignCode fills the code role, resolving competition by marker proximity
// and then file order.
func (a *Associator) assignCode(cur *record, text string, off int, markers []int, res *Result) {
	if cur.code == "" {
		cur.code = text
		cur.codeOff = off
		return
	}
	res.Ambiguities++
	if closer(off, cur.codeOff, markers) {
		a.diag(res, off, "code %q displaces %q (closer to section marker)", text, cur.code)
		cur.code = text
		cur.codeOff = off
		return
	}
	a.diag(res, off, "code %q ignored, keeping earlier %q", text, cur.code)
}

// assignName fills the name role: the longest filter-passing token wins,
// marker proximity breaks length ties.
func (a *Associator) assignName(cur *record, text string, off int, markers []int, res *Result) {
	switch {
	case cur.name == "":
		cur.name = text
		cur.nameOff = off
	case len(text) > len(cur.name):
		cur.name = text
		cur.nameOff = off
	case len(text) == len(cur.name):
		res.Ambiguities++
		if closer(off, cur.nameOff, markers) {
			a.diag(res, off, "name %q displaces %q (closer to section marker)", text, cur.name)
			cur.name = text
			cur.nameOff = off
		}
	}
}

// attachMoney searches the bounded window past the record's identifying
// token. The bitmap is a pre-check; the actual read re-scans the window
// with the tight bounds used for header-anchored scans, drops straddled
// reads, then takes the anchored candidate if any and the earliest
// otherwise. No candidate in the window leaves the balance at zero.
func (a *Associator) attachMoney(buf []byte, offsets *roaring.Bitmap, r *record) {
	if !a.schema.HasBalance {
		return
	}

	start := r.lastEnd
	if r.codeOff >= 0 {
		start = r.codeOff + len(r.code)
	}
	end := start + a.opts.Window
	if end > len(buf) {
		end = len(buf)
	}
	if start >= end {
		return
	}

	it := offsets.Iterator()
	it.AdvanceIfNeeded(uint32(start))
	if !it.HasNext() || int(it.PeekNext()) >= end {
		return
	}

	// Rescan a little early so sentinel detection still sees the bytes
	// preceding the first in-window candidate.
	scanStart := start - 8
	if scanStart < 0 {
		scanStart = 0
	}
	stop := end + 8
	if stop > len(buf) {
		stop = len(buf)
	}

	var picked []scan.Candidate
	for _, c := range scan.Doubles(buf[scanStart:stop], scan.TightBounds) {
		abs := scanStart + c.Offset
		if abs < start || abs >= end {
			continue
		}
		c.Offset = abs
		picked = append(picked, c)
	}
	picked = scan.DeOverlap(picked)
	if len(picked) == 0 {
		return
	}

	first := picked[0]
	for _, c := range picked {
		if c.Anchored {
			first = c
			break
		}
	}

	if a.schema.HasCostPrice {
		r.cost = first.Value
		for _, c := range picked {
			if c.Offset > first.Offset {
				r.price = c.Value
				break
			}
		}
		return
	}
	r.balance = first.Value
	r.anchored = first.Anchored
}

// collapse merges records sharing an identifying code according to the
// configured duplicate policy. Codeless records collapse by case-folded
// name instead, matching the legacy extractor's dedupe.
func (a *Associator) collapse(records []record, res *Result) []record {
	seen := make(map[string]int)
	out := records[:0]
	for _, r := range records {
		key := "c:" + r.code
		if r.code == "" {
			key = "n:" + strings.ToLower(r.name)
		}
		idx, dup := seen[key]
		if !dup {
			seen[key] = len(out)
			out = append(out, r)
			continue
		}
		res.Collapsed++
		if a.opts.DuplicatePolicy != config.KeepFirst &&
			math.Abs(r.balance) > math.Abs(out[idx].balance) {
			label := r.code
			if label == "" {
				label = r.name
			}
			a.diag(res, r.codeOff, "duplicate record %q: keeping larger balance %.2f", label, r.balance)
			keep := out[idx]
			if r.name == "" {
				r.name = keep.name
			}
			out[idx] = r
		}
	}
	return out
}

func (a *Associator) toEntity(r record, idx int) entity.Entity {
	e := entity.Entity{
		Kind:    a.schema.Kind,
		Code:    r.code,
		Name:    r.name,
		Balance: entity.Money(r.balance),
		Cost:    entity.Money(r.cost),
		Price:   entity.Money(r.price),
		Active:  true,
	}
	e.CreditLimit = entity.Money(0)
	if e.Code == "" {
		e.Code = entity.SynthesizeCode(a.schema.Kind, idx)
	}
	if a.schema.Kind == entity.KindAccount {
		e.Classification = a.classifier.Classify(e.Code)
	}
	return e
}

func (a *Associator) diag(res *Result, off int, format string, args ...any) {
	if !a.opts.Debug {
		return
	}
	d := Diagnostic{
		Kind:    a.schema.Kind,
		Offset:  off,
		Message: fmt.Sprintf(format, args...),
	}
	res.Diagnostics = append(res.Diagnostics, d)
	if a.opts.Diag != nil {
		a.opts.Diag(d.Kind, d.Offset, d.Message)
	}
}

// markerOffsets collects the offsets of section-marker tokens.
func (a *Associator) markerOffsets(tokens []scan.Token) []int {
	if a.schema.SectionMarker == "" {
		return nil
	}
	var out []int
	for _, t := range tokens {
		if strings.Contains(strings.ToLower(t.Text), strings.ToLower(a.schema.SectionMarker)) {
			out = append(out, t.Offset)
		}
	}
	return out
}

// closer reports whether candidate is strictly nearer to a section marker
// than incumbent. With no markers, the incumbent (first in file order) wins.
func closer(candidate, incumbent int, markers []int) bool {
	if len(markers) == 0 {
		return false
	}
	return nearestDist(candidate, markers) < nearestDist(incumbent, markers)
}

func nearestDist(off int, markers []int) int {
	best := math.MaxInt
	for _, m := range markers {
		d := off - m
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return best
}
