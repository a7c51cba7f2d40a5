package imageset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"antiquites/internal/imageset"
)

func strptr(s string) *string { return &s }

func TestRoundTripTrimsEntries(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{in: []string{}, want: []string{}},
		{in: []string{"a.jpg"}, want: []string{"a.jpg"}},
		{in: []string{" a.jpg", "b.png\n"}, want: []string{"a.jpg", "b.png"}},
		{in: []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"}, want: []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"}},
	}
	for _, tc := range cases {
		enc := imageset.Encode(tc.in)
		assert.Equal(t, tc.want, imageset.DecodeString(enc), "encoded=%s", enc)
	}
}

func TestEncodeEmptyIsArrayLiteral(t *testing.T) {
	assert.Equal(t, "[]", imageset.Encode(nil))
	assert.Equal(t, "[]", imageset.Encode([]string{}))
	got := imageset.DecodeString("[]")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecodeLegacyScalar(t *testing.T) {
	assert.Equal(t, []string{"myphoto.jpg"}, imageset.DecodeString("myphoto.jpg"))
	assert.Equal(t, []string{"myphoto.jpg"}, imageset.Decode(strptr(" myphoto.jpg\n")))

	r := imageset.Parse("myphoto.jpg")
	assert.Equal(t, imageset.LegacyScalar, r.Kind)
}

func TestDecodeNullAndEmpty(t *testing.T) {
	assert.Equal(t, []string{}, imageset.Decode(nil))
	assert.Equal(t, []string{}, imageset.Decode(strptr("")))
	assert.Equal(t, imageset.Empty, imageset.Parse("").Kind)
}

func TestDecodeMalformedFallsBack(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, []string{"not valid json ["}, imageset.DecodeString("not valid json ["))
	})
	// JSON that is valid but not an array of strings is also a single filename
	assert.Equal(t, []string{`{"a":1}`}, imageset.DecodeString(`{"a":1}`))
}

func TestNormalize(t *testing.T) {
	out, changed := imageset.Normalize("legacy.jpg ")
	assert.True(t, changed)
	assert.Equal(t, `["legacy.jpg"]`, out)

	out, changed = imageset.Normalize(`["a.jpg","b.jpg"]`)
	assert.False(t, changed)
	assert.Equal(t, `["a.jpg","b.jpg"]`, out)

	out, changed = imageset.Normalize("[\"a.jpg\\n\"]")
	assert.True(t, changed)
	assert.Equal(t, `["a.jpg"]`, out)
}
