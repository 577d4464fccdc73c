package plistcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

type sampleBody struct {
	DeviceName string         `plist:"device-name"`
	Services   []sampleEntry  `plist:"services"`
	Data       map[string]any `plist:"private-device-data"`
}

type sampleEntry struct {
	Service string `plist:"service"`
	Blob    []byte `plist:"blob"`
}

func TestMarshalEmitsWireKeys(t *testing.T) {
	codec := New()

	data, err := codec.Marshal(sampleBody{
		DeviceName: "dirreg",
		Services:   []sampleEntry{{Service: "com.apple.madrid", Blob: []byte{0x01}}},
		Data:       map[string]any{"u": "ABC"},
	})
	require.NoError(t, err)

	// The directory matches keys verbatim; tags must survive encoding.
	assert.Contains(t, string(data), "device-name")
	assert.Contains(t, string(data), "private-device-data")
	assert.Contains(t, string(data), "com.apple.madrid")
}

func TestUnmarshalAcceptsBinaryFormat(t *testing.T) {
	original := sampleBody{
		DeviceName: "dirreg",
		Services:   []sampleEntry{{Service: "com.apple.ess", Blob: []byte{0xDE, 0xAD}}},
	}
	binary, err := plist.Marshal(original, plist.BinaryFormat)
	require.NoError(t, err)

	codec := New()
	var decoded sampleBody
	require.NoError(t, codec.Unmarshal(binary, &decoded))

	assert.Equal(t, original.DeviceName, decoded.DeviceName)
	require.Len(t, decoded.Services, 1)
	assert.Equal(t, original.Services[0].Blob, decoded.Services[0].Blob)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	codec := New()
	var out sampleBody
	require.Error(t, codec.Unmarshal([]byte("not a plist"), &out))
}

func TestUnmarshalLeavesAbsentFieldsNil(t *testing.T) {
	// The response state machine relies on absent keys staying nil.
	type response struct {
		Status   *int     `plist:"status"`
		Services []string `plist:"services"`
	}

	data, err := plist.Marshal(map[string]any{}, plist.XMLFormat)
	require.NoError(t, err)

	codec := New()
	var decoded response
	require.NoError(t, codec.Unmarshal(data, &decoded))

	assert.Nil(t, decoded.Status)
	assert.Nil(t, decoded.Services)
}
