package domain

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"math/big"

	coreerrors "github.com/sufield/dirreg/internal/core/errors"
)

// ContainerSize is the total length of the binary identity container.
// Every field is a compile-time constant width derived from the key sizes
// the directory expects; nothing in the layout is self-describing.
const ContainerSize = 249

const (
	ecCoordinateSize = 32
	rsaModulusSize   = 161
)

// Container tag constants. The values are DER framing for the fixed key
// sizes, but the directory treats them as opaque byte sequences and so
// does this codec: every tag is matched exactly and any deviation is a
// malformed container.
var (
	containerHeader    = []byte{0x30, 0x81, 0xF6, 0x81, 0x43}
	ecPointTag         = []byte{0x00, 0x41, 0x04}
	rsaBlockTag        = []byte{0x82, 0x81, 0xAE}
	rsaPrefixTag       = []byte{0x00, 0xAC}
	rsaInnerTag        = []byte{0x30, 0x81, 0xA9}
	rsaModulusTag      = []byte{0x02, 0x81, 0xA1}
	rsaExponentTrailer = []byte{0x02, 0x03, 0x01, 0x00, 0x01}
)

// containerReader walks the container sequentially, tracking the offset
// so failures report where the mismatch happened.
type containerReader struct {
	buf []byte
	off int
}

func (r *containerReader) take(n int, field string) ([]byte, error) {
	if len(r.buf)-r.off < n {
		return nil, &coreerrors.MalformedIdentityError{
			Field:   field,
			Offset:  r.off,
			Message: "container truncated",
		}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *containerReader) expect(tag []byte, field string) error {
	off := r.off
	b, err := r.take(len(tag), field)
	if err != nil {
		return err
	}
	if !bytes.Equal(b, tag) {
		return &coreerrors.MalformedIdentityError{
			Field:   field,
			Offset:  off,
			Message: "tag mismatch",
		}
	}
	return nil
}

// DecodeContainer parses a binary identity container into a public-only
// Identity. The layout is read sequentially and every tag byte sequence
// is checked for an exact match; the first mismatch fails the decode with
// no partial result.
func DecodeContainer(data []byte) (*Identity, error) {
	if len(data) != ContainerSize {
		return nil, &coreerrors.MalformedIdentityError{
			Field:   "container",
			Offset:  0,
			Message: "wrong length",
		}
	}

	r := &containerReader{buf: data}

	if err := r.expect(containerHeader, "outer header"); err != nil {
		return nil, err
	}
	if err := r.expect(ecPointTag, "ec point tag"); err != nil {
		return nil, err
	}
	ecX, err := r.take(ecCoordinateSize, "ec x coordinate")
	if err != nil {
		return nil, err
	}
	ecY, err := r.take(ecCoordinateSize, "ec y coordinate")
	if err != nil {
		return nil, err
	}
	if err := r.expect(rsaBlockTag, "rsa block tag"); err != nil {
		return nil, err
	}
	if err := r.expect(rsaPrefixTag, "rsa prefix"); err != nil {
		return nil, err
	}
	if err := r.expect(rsaInnerTag, "rsa inner tag"); err != nil {
		return nil, err
	}
	if err := r.expect(rsaModulusTag, "rsa modulus tag"); err != nil {
		return nil, err
	}
	modulus, err := r.take(rsaModulusSize, "rsa modulus")
	if err != nil {
		return nil, err
	}
	// The trailer is the encoded exponent; anything but 65537 is a
	// container this codec does not understand.
	if err := r.expect(rsaExponentTrailer, "rsa exponent"); err != nil {
		return nil, err
	}

	signing := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(ecX),
		Y:     new(big.Int).SetBytes(ecY),
	}
	encryption := &rsa.PublicKey{
		N: new(big.Int).SetBytes(modulus),
		E: encryptionKeyExponent,
	}

	return &Identity{SigningPublic: signing, EncryptionPublic: encryption}, nil
}

// EncodeContainer serializes an identity's public keys into the binary
// container. Only keys matching the container's fixed field widths can be
// encoded: P-256 signing, RSA with exponent 65537 and a modulus of at
// most 161 bytes.
func EncodeContainer(id *Identity) ([]byte, error) {
	if id == nil || id.SigningPublic == nil || id.EncryptionPublic == nil {
		return nil, &coreerrors.UnsupportedKeyShapeError{Reason: "identity is missing public key material"}
	}
	if id.SigningPublic.Curve != elliptic.P256() {
		return nil, &coreerrors.UnsupportedKeyShapeError{Reason: "signing key curve is not P-256"}
	}
	if id.EncryptionPublic.E != encryptionKeyExponent {
		return nil, &coreerrors.UnsupportedKeyShapeError{Reason: "encryption key exponent is not 65537"}
	}
	if (id.EncryptionPublic.N.BitLen()+7)/8 > rsaModulusSize {
		return nil, &coreerrors.UnsupportedKeyShapeError{Reason: "encryption key modulus exceeds 161 bytes"}
	}

	buf := make([]byte, 0, ContainerSize)
	buf = append(buf, containerHeader...)
	buf = append(buf, ecPointTag...)
	buf = append(buf, id.SigningPublic.X.FillBytes(make([]byte, ecCoordinateSize))...)
	buf = append(buf, id.SigningPublic.Y.FillBytes(make([]byte, ecCoordinateSize))...)
	buf = append(buf, rsaBlockTag...)
	buf = append(buf, rsaPrefixTag...)
	buf = append(buf, rsaInnerTag...)
	buf = append(buf, rsaModulusTag...)
	buf = append(buf, id.EncryptionPublic.N.FillBytes(make([]byte, rsaModulusSize))...)
	buf = append(buf, rsaExponentTrailer...)

	return buf, nil
}
