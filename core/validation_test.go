package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSegment(t *testing.T) {
	valid := func() *Segment {
		return &Segment{
			Text:      "الحمد لله رب العالمين",
			Start:     10,
			End:       25,
			VideoLink: "https://www.youtube.com/watch?v=ipl5umkF5l0",
		}
	}

	t.Run("valid segment", func(t *testing.T) {
		assert.NoError(t, ValidateSegment(valid()))
	})

	t.Run("nil segment", func(t *testing.T) {
		err := ValidateSegment(nil)
		assert.ErrorIs(t, err, ErrInvalidSegment)
	})

	t.Run("empty text", func(t *testing.T) {
		s := valid()
		s.Text = ""
		err := ValidateSegment(s)
		assert.ErrorIs(t, err, ErrInvalidSegment)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("negative start", func(t *testing.T) {
		s := valid()
		s.Start = -1
		assert.ErrorIs(t, ValidateSegment(s), ErrNegativeTime)
	})

	t.Run("end before start", func(t *testing.T) {
		s := valid()
		s.Start = 30
		s.End = 20
		assert.ErrorIs(t, ValidateSegment(s), ErrSpanOrder)
	})

	t.Run("negative sequence", func(t *testing.T) {
		s := valid()
		s.Sequence = -2
		assert.ErrorIs(t, ValidateSegment(s), ErrNegativeSequence)
	})

	t.Run("zero duration span is valid", func(t *testing.T) {
		s := valid()
		s.Start = 15
		s.End = 15
		assert.NoError(t, ValidateSegment(s))
	})
}

func TestValidateMode(t *testing.T) {
	assert.NoError(t, ValidateMode(ModeLexical))
	assert.NoError(t, ValidateMode(ModeEnhanced))
	assert.NoError(t, ValidateMode(ModeSemantic))
	assert.ErrorIs(t, ValidateMode(Mode(0)), ErrUnknownMode)
	assert.ErrorIs(t, ValidateMode(Mode(99)), ErrUnknownMode)
}
