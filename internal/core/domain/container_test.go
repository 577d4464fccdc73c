package domain

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/sufield/dirreg/internal/core/errors"
)

func testIdentity(t *testing.T) *Identity {
	t.Helper()
	signing, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	// 1024 bits keeps the test fast; the modulus still fits the
	// 161-byte field.
	encryption, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	return FromPrivateKeys(signing, encryption)
}

func TestEncodeContainerLayout(t *testing.T) {
	id := testIdentity(t)

	data, err := EncodeContainer(id)
	require.NoError(t, err)
	require.Len(t, data, ContainerSize)

	assert.Equal(t, []byte{0x30, 0x81, 0xF6, 0x81, 0x43}, data[0:5])
	assert.Equal(t, []byte{0x00, 0x41, 0x04}, data[5:8])
	assert.Equal(t, []byte{0x82, 0x81, 0xAE}, data[72:75])
	assert.Equal(t, []byte{0x00, 0xAC}, data[75:77])
	assert.Equal(t, []byte{0x30, 0x81, 0xA9}, data[77:80])
	assert.Equal(t, []byte{0x02, 0x81, 0xA1}, data[80:83])
	assert.Equal(t, []byte{0x02, 0x03, 0x01, 0x00, 0x01}, data[244:249])

	// Coordinates are zero-padded big-endian.
	assert.Equal(t, id.SigningPublic.X, new(big.Int).SetBytes(data[8:40]))
	assert.Equal(t, id.SigningPublic.Y, new(big.Int).SetBytes(data[40:72]))
	assert.Equal(t, id.EncryptionPublic.N, new(big.Int).SetBytes(data[83:244]))
}

func TestContainerRoundTrip(t *testing.T) {
	id := testIdentity(t)

	data, err := EncodeContainer(id)
	require.NoError(t, err)

	decoded, err := DecodeContainer(data)
	require.NoError(t, err)

	assert.True(t, id.SigningPublic.Equal(decoded.SigningPublic))
	assert.True(t, id.EncryptionPublic.Equal(decoded.EncryptionPublic))

	// Decode always produces a public-only identity.
	assert.Nil(t, decoded.SigningKey)
	assert.Nil(t, decoded.EncryptionKey)
}

func TestDecodeContainerRejectsTagCorruption(t *testing.T) {
	id := testIdentity(t)
	data, err := EncodeContainer(id)
	require.NoError(t, err)

	// Every declared tag region must be matched exactly.
	tagRegions := []struct {
		name       string
		start, end int
	}{
		{"outer header", 0, 5},
		{"ec point tag", 5, 8},
		{"rsa block tag", 72, 75},
		{"rsa prefix", 75, 77},
		{"rsa inner tag", 77, 80},
		{"rsa modulus tag", 80, 83},
		{"rsa exponent", 244, 249},
	}

	for _, region := range tagRegions {
		for off := region.start; off < region.end; off++ {
			corrupted := make([]byte, len(data))
			copy(corrupted, data)
			corrupted[off] ^= 0xFF

			_, err := DecodeContainer(corrupted)
			var malformed *coreerrors.MalformedIdentityError
			require.ErrorAs(t, err, &malformed, "region %s offset %d", region.name, off)
		}
	}
}

func TestDecodeContainerAcceptsArbitraryKeyBytes(t *testing.T) {
	id := testIdentity(t)
	data, err := EncodeContainer(id)
	require.NoError(t, err)

	// The coordinate and modulus regions carry arbitrary values; only
	// the tags are load-bearing.
	for _, off := range []int{8, 39, 40, 71, 83, 150, 243} {
		mutated := make([]byte, len(data))
		copy(mutated, data)
		mutated[off] ^= 0xFF

		_, err := DecodeContainer(mutated)
		assert.NoError(t, err, "offset %d", off)
	}
}

func TestDecodeContainerRejectsWrongLength(t *testing.T) {
	id := testIdentity(t)
	data, err := EncodeContainer(id)
	require.NoError(t, err)

	var malformed *coreerrors.MalformedIdentityError

	_, err = DecodeContainer(data[:ContainerSize-1])
	require.ErrorAs(t, err, &malformed)

	_, err = DecodeContainer(append(data, 0x00))
	require.ErrorAs(t, err, &malformed)

	_, err = DecodeContainer(nil)
	require.ErrorAs(t, err, &malformed)
}

func TestEncodeContainerRejectsWrongCurve(t *testing.T) {
	id := testIdentity(t)
	signing, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	id.SigningKey = signing
	id.SigningPublic = &signing.PublicKey

	_, err = EncodeContainer(id)
	var unsupported *coreerrors.UnsupportedKeyShapeError
	require.ErrorAs(t, err, &unsupported)
}

func TestEncodeContainerRejectsWrongExponent(t *testing.T) {
	id := testIdentity(t)
	id.EncryptionKey = nil
	id.EncryptionPublic = &rsa.PublicKey{N: id.EncryptionPublic.N, E: 3}

	_, err := EncodeContainer(id)
	var unsupported *coreerrors.UnsupportedKeyShapeError
	require.ErrorAs(t, err, &unsupported)
}

func TestEncodeContainerRejectsOversizedModulus(t *testing.T) {
	id := testIdentity(t)

	// A 2048-bit modulus needs 256 bytes and cannot fit the fixed
	// 161-byte field.
	oversized, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	id.EncryptionKey = oversized
	id.EncryptionPublic = &oversized.PublicKey

	_, err = EncodeContainer(id)
	var unsupported *coreerrors.UnsupportedKeyShapeError
	require.ErrorAs(t, err, &unsupported)
}

func TestEncodeContainerRejectsMissingKeys(t *testing.T) {
	var unsupported *coreerrors.UnsupportedKeyShapeError

	_, err := EncodeContainer(nil)
	require.ErrorAs(t, err, &unsupported)

	_, err = EncodeContainer(&Identity{})
	require.ErrorAs(t, err, &unsupported)
}

func TestDecodeContainerRejectsNonStandardExponent(t *testing.T) {
	id := testIdentity(t)
	data, err := EncodeContainer(id)
	require.NoError(t, err)

	// Rewrite the trailer to encode exponent 3 instead of 65537. The
	// decoder treats any non-65537 trailer as malformed.
	copy(data[244:], []byte{0x02, 0x03, 0x00, 0x00, 0x03})

	_, err = DecodeContainer(data)
	var malformed *coreerrors.MalformedIdentityError
	require.ErrorAs(t, err, &malformed)
}
