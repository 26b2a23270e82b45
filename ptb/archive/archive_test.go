package archive

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sageflow/ptbcodec/ptb/entity"
)

func TestOpen(t *testing.T) {
	t.Run("CorruptInput", func(t *testing.T) {
		ar, err := Open([]byte("definitely not a zip container"))
		assert.Nil(t, ar)
		assert.ErrorIs(t, err, ErrCorruptArchive)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		ar, err := Open(nil)
		assert.Nil(t, ar)
		assert.ErrorIs(t, err, ErrCorruptArchive)
	})

	t.Run("RoundTripThroughBuilder", func(t *testing.T) {
		b := NewBuilder()
		b.Add("CHART.DAT", []byte{0x01, 0x02, 0x03})
		b.Add("CUSTOMER.DAT", []byte("customer bytes"))
		data, err := b.Bytes()
		require.NoError(t, err)

		ar, err := Open(data)
		require.NoError(t, err)
		assert.Equal(t, []string{"CHART.DAT", "CUSTOMER.DAT"}, ar.Members())
		assert.Equal(t, 2, ar.Len())

		content, err := ar.Read("CUSTOMER.DAT")
		require.NoError(t, err)
		assert.Equal(t, []byte("customer bytes"), content)

		_, err = ar.Read("VENDOR.DAT")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestMemberKind(t *testing.T) {
	tests := []struct {
		name string
		kind entity.Kind
		ok   bool
	}{
		{"CUSTOMER.DAT", entity.KindCustomer, true},
		{"customer.dat", entity.KindCustomer, true},
		{"backup/VENDOR.DAT", entity.KindVendor, true},
		{"SUPPLIER.DAT", entity.KindVendor, true},
		{"CHART.DAT", entity.KindAccount, true},
		{"ITEMS.DAT", entity.KindItem, true},
		{"LINEITEM.DAT", entity.KindItem, true},
		{"ADDRESS.DAT", entity.KindAddress, true},
		{"MANIFEST.TXT", "", false},
		{"CUSTOMER.RPT", "", false},
		{"JRNLHDR.DAT", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := MemberKind(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestFindMember(t *testing.T) {
	b := NewBuilder()
	b.Add("MANIFEST.TXT", []byte("Name=x\r\n"))
	b.Add("CHART.DAT", []byte("chart"))
	data, err := b.Bytes()
	require.NoError(t, err)

	ar, err := Open(data)
	require.NoError(t, err)

	name, buf, ok := ar.FindMember(entity.KindAccount)
	require.True(t, ok)
	assert.Equal(t, "CHART.DAT", name)
	assert.Equal(t, []byte("chart"), buf)

	_, _, ok = ar.FindMember(entity.KindVendor)
	assert.False(t, ok)
}

func TestManifest(t *testing.T) {
	t.Run("EncodeParseRoundTrip", func(t *testing.T) {
		m := Manifest{
			Name:       "Blue Nile Trading",
			Version:    "0.3.0",
			ExportDate: time.Date(2026, 5, 14, 9, 30, 0, 0, time.UTC),
			Format:     "PTB-FW/1",
			ExportID:   "0b9f0a52-3f0e-4a4e-9a59-1df1c86f2f41",
		}
		got := ParseManifest(m.Encode())
		assert.Equal(t, m, got)
	})

	t.Run("SkipsUnknownAndMalformedLines", func(t *testing.T) {
		got := ParseManifest([]byte("Name=X\r\njunk line\r\nColor=blue\r\nExportDate=not-a-date\r\n"))
		assert.Equal(t, "X", got.Name)
		assert.True(t, got.ExportDate.IsZero())
	})

	t.Run("NewManifestStamps", func(t *testing.T) {
		m := NewManifest("Co", "1.0", "PTB-FW/1")
		assert.NotEmpty(t, m.ExportID)
		assert.False(t, m.ExportDate.IsZero())
	})
}

func TestReadFCR(t *testing.T) {
	buf := make([]byte, 512)
	binary.LittleEndian.PutUint16(buf[0x14:0x16], 3)
	binary.LittleEndian.PutUint32(buf[0x1C:0x20], 57)

	fcr, ok := ReadFCR(buf)
	require.True(t, ok)
	assert.Equal(t, uint32(57), fcr.RecordCount)
	assert.Equal(t, uint16(3), fcr.KeyCount)

	_, ok = ReadFCR([]byte{1, 2, 3})
	assert.False(t, ok)
}
