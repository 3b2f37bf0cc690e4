package api

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValueMappings(t *testing.T) {
	assert := assert.New(t)

	packed := EncodeValueMappings([]ValueMapping{{Text: "Low", Value: 0}, {Text: "High", Value: 1}})

	assert.Equal("Low:0,High:1", packed)
}

func TestDecodeValueMappingsKeepsOrder(t *testing.T) {
	require := require.New(t)

	mappings, err := DecodeValueMappings("Off:3,On:1,Fault:2")
	require.NoError(err)

	require.Equal([]ValueMapping{{Text: "Off", Value: 3}, {Text: "On", Value: 1}, {Text: "Fault", Value: 2}}, mappings)
}

func TestEmptyValueMappings(t *testing.T) {
	assert := assert.New(t)

	mappings, err := DecodeValueMappings("")
	assert.NoError(err)
	assert.NotNil(mappings)
	assert.Empty(mappings, "empty string decodes to no pairs")

	assert.Equal("", EncodeValueMappings(nil))
	assert.Equal("", EncodeValueMappings([]ValueMapping{}))
}

func TestValueMappingsRoundTrip(t *testing.T) {
	require := require.New(t)

	cases := [][]ValueMapping{
		{{Text: "Low", Value: 0}},
		{{Text: "Open", Value: 1}, {Text: "Closed", Value: 0}, {Text: "In Transit", Value: 42}},
		{{Text: "", Value: 7}},
	}

	for i, mappings := range cases {
		decoded, err := DecodeValueMappings(EncodeValueMappings(mappings))
		require.NoError(err, "case %d", i)
		require.Equal(mappings, decoded, "case %d", i)
	}
}

func TestDecodeValueMappingsSplitsOnFirstColon(t *testing.T) {
	require := require.New(t)

	mappings, err := DecodeValueMappings(":5")
	require.NoError(err)
	require.Equal([]ValueMapping{{Text: "", Value: 5}}, mappings)

	_, err = DecodeValueMappings("Mode:A:1")
	require.Error(err, "the value segment is everything after the first colon")
}

func TestDecodeValueMappingsErrors(t *testing.T) {
	assert := assert.New(t)

	for _, packed := range []string{"Low", "Low:", "Low:-1", "Low:one", "Low:0,", "Low:0,,High:1"} {
		_, err := DecodeValueMappings(packed)

		var parseErr *MappingParseError
		assert.True(errors.As(err, &parseErr), "expected MappingParseError for %q", packed)
	}

	_, err := DecodeValueMappings("Low:0,High:x")
	var parseErr *MappingParseError
	if assert.True(errors.As(err, &parseErr)) {
		assert.Equal("High:x", parseErr.Pair)
		assert.True(errors.Is(err, strconv.ErrSyntax))
	}
}
