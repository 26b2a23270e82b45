package engine

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ptb "github.com/sageflow/ptbcodec/ptb"
	"github.com/sageflow/ptbcodec/ptb/archive"
	"github.com/sageflow/ptbcodec/ptb/config"
	"github.com/sageflow/ptbcodec/ptb/entity"
)

// chartMember fabricates a legacy-shaped binary member: a code token, a name
// token and an unaligned little-endian balance, surrounded by zero padding.
func chartMember(code, name string, balance float64) []byte {
	buf := make([]byte, 300)
	copy(buf[10:], code)
	copy(buf[20:], name)
	binary.LittleEndian.PutUint64(buf[60:68], math.Float64bits(balance))
	return buf
}

func buildArchive(t *testing.T, members map[string][]byte) []byte {
	t.Helper()
	b := archive.NewBuilder()
	for _, name := range []string{"MANIFEST.TXT", "CHART.DAT", "CUSTOMER.DAT", "VENDOR.DAT", "ITEMS.DAT", "ADDRESS.DAT"} {
		if data, ok := members[name]; ok {
			b.Add(name, data)
		}
	}
	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}

func TestImportArchiveCorrupt(t *testing.T) {
	col, err := ImportArchive(context.Background(), []byte("not a container"), config.DefaultOptions())
	assert.Nil(t, col)
	assert.ErrorIs(t, err, archive.ErrCorruptArchive)
}

func TestImportArchiveHeuristic(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"CHART.DAT":    chartMember("1000", "Cash on hand", 79272344.14),
		"CUSTOMER.DAT": chartMember("2045", "Habesha Imports", 1520.40),
	})

	col, err := ImportArchive(context.Background(), data, config.DefaultOptions())
	require.NoError(t, err)

	accounts := col.Of(entity.KindAccount)
	require.Len(t, accounts, 1)
	assert.Equal(t, "1000", accounts[0].Code)
	assert.Equal(t, "Cash on hand", accounts[0].Name)
	assert.Equal(t, "79272344.14", accounts[0].Balance.StringFixed(2))
	assert.Equal(t, entity.ClassAsset, accounts[0].Classification)

	customers := col.Of(entity.KindCustomer)
	require.Len(t, customers, 1)
	assert.Equal(t, "2045", customers[0].Code)

	// Kinds with no member are reported, not failed.
	assert.True(t, col.Stats.SourceAbsent[entity.KindVendor])
	assert.True(t, col.Stats.SourceAbsent[entity.KindItem])
	assert.Empty(t, col.Of(entity.KindVendor))

	assert.Equal(t, 2, col.Total())
	assert.Positive(t, col.Stats.TokensSeen)
	assert.Positive(t, col.Stats.CandidatesSeen)
	assert.Equal(t, 1, col.Stats.NonZeroBalances[entity.KindAccount])
	assert.Contains(t, col.Stats.ByClassification, entity.ClassAsset)
}

func TestImportArchiveDeterministic(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"CHART.DAT":    chartMember("1000", "Cash on hand", 100.25),
		"CUSTOMER.DAT": chartMember("2045", "Habesha Imports", 1520.40),
		"VENDOR.DAT":   chartMember("3050", "Mekele Supplies", 75.10),
	})

	first, err := ImportArchive(context.Background(), data, config.DefaultOptions())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ImportArchive(context.Background(), data, config.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, first.Entities, again.Entities, "worker scheduling must not affect output")
	}
}

func TestImportArchiveEmptyContainer(t *testing.T) {
	legacy := archive.NewManifest("Old Co", "8.0", ptb.FormatName)
	data := buildArchive(t, map[string][]byte{
		"MANIFEST.TXT": legacy.Encode(),
	})

	col, err := ImportArchive(context.Background(), data, config.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, col.Total())
	for _, kind := range entity.Kinds() {
		assert.True(t, col.Stats.SourceAbsent[kind])
		assert.NotNil(t, col.Of(kind))
	}
}

func TestImportArchiveRequiredKinds(t *testing.T) {
	data := buildArchive(t, map[string][]byte{
		"CHART.DAT": chartMember("1000", "Cash on hand", 100.25),
	})

	opts := config.DefaultOptions()
	opts.RequiredKinds = []entity.Kind{entity.KindVendor}
	col, err := ImportArchive(context.Background(), data, opts)
	assert.Nil(t, col)
	assert.ErrorIs(t, err, ErrRequiredMemberMissing)
}

func TestImportArchiveUnsupportedFormat(t *testing.T) {
	m := archive.NewManifest("Future Co", "9.9", "PTB-FW/2")
	data := buildArchive(t, map[string][]byte{
		"MANIFEST.TXT": m.Encode(),
		"CHART.DAT":    chartMember("1000", "Cash on hand", 100.25),
	})

	col, err := ImportArchive(context.Background(), data, config.DefaultOptions())
	assert.Nil(t, col)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportArchiveDiagnosticSink(t *testing.T) {
	// Two competing code tokens in one record force a diagnostic.
	buf := make([]byte, 200)
	copy(buf[10:], "4000")
	copy(buf[20:], "4100")
	copy(buf[30:], "Consulting revenue")
	data := buildArchive(t, map[string][]byte{"CHART.DAT": buf})

	var seen []string
	opts := config.DefaultOptions()
	opts.Debug = true
	opts.Diag = func(kind entity.Kind, offset int, message string) {
		seen = append(seen, message)
	}

	col, err := ImportArchive(context.Background(), data, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, col.Stats.Ambiguities)
	assert.NotEmpty(t, seen)
}

func TestExportImportRoundTrip(t *testing.T) {
	col := entity.NewCollection()
	col.Add(entity.Entity{
		Kind: entity.KindAccount, Code: "1000", Name: "Cash on hand",
		Balance: entity.Money(79272344.14), Classification: entity.ClassAsset, Active: true,
	})
	col.Add(entity.Entity{
		Kind: entity.KindAccount, Code: "4000", Name: "Consulting revenue",
		Balance: entity.Money(12500), Classification: entity.ClassRevenue, Active: true,
	})
	col.Add(entity.Entity{
		Kind: entity.KindCustomer, Code: "2045", Name: "Habesha Imports",
		Contact: "M. Tesfaye", City: "Addis Ababa", Country: "Ethiopia",
		Balance: entity.Money(1520.40), CreditLimit: entity.Money(5000), Active: true,
	})
	col.Add(entity.Entity{
		Kind: entity.KindItem, Code: "ITEM1", Name: "Roasted beans 1kg",
		Cost: entity.Money(12.50), Price: entity.Money(19.99), Active: true,
	})

	data, stats, err := ExportArchive(col, "Blue Nile Trading")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Records)

	// The exporter's manifest routes the import through the exact
	// fixed-width decoder, so counts and codes survive unchanged.
	got, err := ImportArchive(context.Background(), data, config.DefaultOptions())
	require.NoError(t, err)

	for _, kind := range entity.Kinds() {
		require.Len(t, got.Of(kind), len(col.Of(kind)), "kind %s", kind)
		for i, want := range col.Of(kind) {
			gotE := got.Of(kind)[i]
			assert.Equal(t, want.Code, gotE.Code)
			assert.Equal(t, want.Name, gotE.Name)
			assert.Equal(t, want.Balance.StringFixed(2), gotE.Balance.StringFixed(2))
		}
	}
	assert.Equal(t, "M. Tesfaye", got.Of(entity.KindCustomer)[0].Contact)
}

func TestExportArchiveDefaultCompanyName(t *testing.T) {
	data, _, err := ExportArchive(entity.NewCollection(), "")
	require.NoError(t, err)

	ar, err := archive.Open(data)
	require.NoError(t, err)
	mdata, err := ar.Read(archive.ManifestMember)
	require.NoError(t, err)
	assert.Equal(t, ptb.DefaultAppName, archive.ParseManifest(mdata).Name)
}
