package fingerprint

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/glintfin/glint/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(b ...byte) model.Fingerprint {
	return model.Fingerprint{Version: Version, Bits: b}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name    string
		a       model.Fingerprint
		b       model.Fingerprint
		want    float64
		wantErr bool
	}{
		{
			name: "identical fingerprints",
			a:    fp(0xFF, 0x00),
			b:    fp(0xFF, 0x00),
			want: 0,
		},
		{
			name: "all bits differ",
			a:    fp(0x00, 0x00),
			b:    fp(0xFF, 0xFF),
			want: 1,
		},
		{
			name: "half the bits differ",
			a:    fp(0x0F, 0x0F),
			b:    fp(0x00, 0x00),
			want: 0.5,
		},
		{
			name:    "version mismatch",
			a:       fp(0x00),
			b:       model.Fingerprint{Version: "other/9", Bits: []byte{0x00}},
			wantErr: true,
		},
		{
			name:    "length mismatch",
			a:       fp(0x00),
			b:       fp(0x00, 0x00),
			wantErr: true,
		},
		{
			name:    "empty fingerprints",
			a:       model.Fingerprint{Version: Version},
			b:       model.Fingerprint{Version: Version},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDistance_VersionMismatchError(t *testing.T) {
	_, err := Distance(fp(0x00), model.Fingerprint{Version: "other/9", Bits: []byte{0x00}})
	assert.ErrorIs(t, err, ErrVersionMismatch)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name      string
		fp        model.Fingerprint
		refs      map[int64][]model.Fingerprint
		threshold float64
		wantID    int64
		wantOK    bool
	}{
		{
			name: "closest category wins",
			fp:   fp(0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF),
			refs: map[int64][]model.Fingerprint{
				1: {fp(0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)},
				2: {fp(0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE)},
			},
			threshold: MatchThreshold,
			wantID:    2,
			wantOK:    true,
		},
		{
			name: "distance at threshold is rejected",
			fp:   fp(0xFF, 0x00),
			refs: map[int64][]model.Fingerprint{
				// 4 of 16 bits differ: distance exactly 0.25.
				1: {fp(0xF0, 0x00)},
			},
			threshold: 0.25,
			wantOK:    false,
		},
		{
			name: "distance just under threshold is accepted",
			fp:   fp(0xFF, 0x00),
			refs: map[int64][]model.Fingerprint{
				// 3 of 16 bits differ: distance 0.1875.
				1: {fp(0xF8, 0x00)},
			},
			threshold: 0.25,
			wantID:    1,
			wantOK:    true,
		},
		{
			name: "exact tie goes to lowest category id",
			fp:   fp(0x00, 0x00),
			refs: map[int64][]model.Fingerprint{
				7: {fp(0x01, 0x00)},
				3: {fp(0x00, 0x01)},
				9: {fp(0x10, 0x00)},
			},
			threshold: 0.25,
			wantID:    3,
			wantOK:    true,
		},
		{
			name: "mismatched versions are excluded",
			fp:   fp(0x00, 0x00),
			refs: map[int64][]model.Fingerprint{
				1: {{Version: "other/9", Bits: []byte{0x00, 0x00}}},
				2: {fp(0x01, 0x00)},
			},
			threshold: 0.25,
			wantID:    2,
			wantOK:    true,
		},
		{
			name:      "no references",
			fp:        fp(0x00),
			refs:      map[int64][]model.Fingerprint{},
			threshold: MatchThreshold,
			wantOK:    false,
		},
		{
			name: "only incompatible references",
			fp:   fp(0x00),
			refs: map[int64][]model.Fingerprint{
				1: {{Version: "other/9", Bits: []byte{0x00}}},
			},
			threshold: MatchThreshold,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Match(tt.fp, tt.refs, tt.threshold)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestPerceptionGenerator_Generate(t *testing.T) {
	gen := NewPerceptionGenerator()

	t.Run("deterministic for same image", func(t *testing.T) {
		data := testImage(t, color.White)

		first, err := gen.Generate(data)
		require.NoError(t, err)
		second, err := gen.Generate(data)
		require.NoError(t, err)

		assert.Equal(t, Version, first.Version)
		assert.Len(t, first.Bits, 8)
		assert.True(t, first.Equal(second))
	})

	t.Run("empty data rejected", func(t *testing.T) {
		_, err := gen.Generate(nil)
		assert.Error(t, err)
	})

	t.Run("garbage data rejected", func(t *testing.T) {
		_, err := gen.Generate([]byte("not an image"))
		assert.Error(t, err)
	})
}

// testImage encodes a small solid-color PNG.
func testImage(t *testing.T, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
