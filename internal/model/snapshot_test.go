package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_TrustLabel(t *testing.T) {
	value := decimal.RequireFromString("45.00")

	tests := []struct {
		name     string
		snapshot Snapshot
		want     string
	}{
		{
			name:     "nothing derived yet",
			snapshot: Snapshot{},
			want:     "pending",
		},
		{
			name:     "automatic value",
			snapshot: Snapshot{Value: &value},
			want:     "automatic",
		},
		{
			name:     "extraction failed",
			snapshot: Snapshot{AnalysisError: "recognition failed"},
			want:     "needs review",
		},
		{
			name:     "confirmed beats everything",
			snapshot: Snapshot{Value: &value, AnalysisError: "stale", HumanConfirmed: true},
			want:     "confirmed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snapshot.TrustLabel())
		})
	}
}

func TestSnapshot_ImageHash(t *testing.T) {
	a := Snapshot{Image: []byte("same")}
	b := Snapshot{Image: []byte("same")}
	c := Snapshot{Image: []byte("different")}

	assert.Equal(t, a.ImageHash(), b.ImageHash())
	assert.NotEqual(t, a.ImageHash(), c.ImageHash())
	assert.Len(t, a.ImageHash(), 64)
}

func TestTextObservation_Validate(t *testing.T) {
	valid := TextObservation{Text: "$45.00", Confidence: 0.9, Rank: 1}
	assert.NoError(t, valid.Validate())

	assert.Error(t, TextObservation{Confidence: 0.9, Rank: 1}.Validate())
	assert.Error(t, TextObservation{Text: "x", Confidence: 1.5, Rank: 1}.Validate())
	assert.Error(t, TextObservation{Text: "x", Confidence: 0.9, Rank: 0}.Validate())
}

func TestFingerprint_Equal(t *testing.T) {
	a := Fingerprint{Version: "dct64/1", Bits: []byte{1, 2}}

	assert.True(t, a.Equal(Fingerprint{Version: "dct64/1", Bits: []byte{1, 2}}))
	assert.False(t, a.Equal(Fingerprint{Version: "other/9", Bits: []byte{1, 2}}))
	assert.False(t, a.Equal(Fingerprint{Version: "dct64/1", Bits: []byte{1, 3}}))
}
