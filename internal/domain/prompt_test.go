package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleLabels(t *testing.T) {
	assert.Equal(t, "Sketch", StyleSketch.Label())
	assert.Equal(t, "Line Art", StyleLineArt.Label())
	assert.Equal(t, "Minimalist", StyleMinimalist.Label())
	assert.Equal(t, "Hand Drawn", StyleHandDrawn.Label())
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		raw  string
		want Style
	}{
		{raw: "", want: StyleSketch},
		{raw: "line_art", want: StyleLineArt},
		{raw: "Line Art", want: StyleLineArt},
		{raw: " HAND_DRAWN ", want: StyleHandDrawn},
	}
	for _, tc := range tests {
		got, err := ParseStyle(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := ParseStyle("watercolor")
	assert.ErrorIs(t, err, ErrInvalidStyle)
}

func TestParseOrientation(t *testing.T) {
	got, err := ParseOrientation("")
	require.NoError(t, err)
	assert.Equal(t, OrientationNone, got)

	got, err = ParseOrientation("Portrait")
	require.NoError(t, err)
	assert.Equal(t, OrientationPortrait, got)

	_, err = ParseOrientation("diagonal")
	assert.ErrorIs(t, err, ErrInvalidOrientation)
}

func TestUserRequestHasDescription(t *testing.T) {
	assert.False(t, UserRequest{Description: ""}.HasDescription())
	assert.False(t, UserRequest{Description: " \n\t "}.HasDescription())
	assert.True(t, UserRequest{Description: " a cat "}.HasDescription())
}

func TestJobStatusFirstDownload(t *testing.T) {
	_, ok := JobStatus{State: JobStateComplete}.FirstDownload()
	assert.False(t, ok)

	d, ok := JobStatus{State: JobStateComplete, Downloads: []Download{{URL: "a"}, {URL: "b"}}}.FirstDownload()
	require.True(t, ok)
	assert.Equal(t, "a", d.URL)
	assert.True(t, JobStateError.Terminal())
	assert.False(t, JobStatePending.Terminal())
}
