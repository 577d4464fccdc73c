// Package domain holds the device identity value types and the
// fixed-layout container codec for the directory's wire format.
package domain

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

// The directory accepts exactly one encryption key size; the container's
// modulus field is sized for it.
const encryptionKeyBits = 1280

// encryptionKeyExponent is the only public exponent the container can
// represent.
const encryptionKeyExponent = 65537

// Identity is a device's message identity: an EC P-256 signing key and an
// RSA encryption key. The private halves are optional; an Identity decoded
// from a container is always public-only. When a private half is present
// its public half is derived from it, so the two can never disagree.
type Identity struct {
	SigningKey       *ecdsa.PrivateKey
	SigningPublic    *ecdsa.PublicKey
	EncryptionKey    *rsa.PrivateKey
	EncryptionPublic *rsa.PublicKey
}

// NewIdentity generates a fresh identity with the key shapes the
// directory accepts: P-256 signing, RSA-1280 with exponent 65537.
func NewIdentity() (*Identity, error) {
	signing, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}

	encryption, err := rsa.GenerateKey(rand.Reader, encryptionKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	return FromPrivateKeys(signing, encryption), nil
}

// FromPrivateKeys builds an Identity from existing private key material,
// deriving the public halves.
func FromPrivateKeys(signing *ecdsa.PrivateKey, encryption *rsa.PrivateKey) *Identity {
	id := &Identity{}
	if signing != nil {
		id.SigningKey = signing
		id.SigningPublic = &signing.PublicKey
	}
	if encryption != nil {
		id.EncryptionKey = encryption
		id.EncryptionPublic = &encryption.PublicKey
	}
	return id
}

// Public returns a copy of the identity stripped of private key material.
func (id *Identity) Public() *Identity {
	return &Identity{
		SigningPublic:    id.SigningPublic,
		EncryptionPublic: id.EncryptionPublic,
	}
}

// HasPrivateKeys reports whether both private halves are present.
func (id *Identity) HasPrivateKeys() bool {
	return id.SigningKey != nil && id.EncryptionKey != nil
}

// Validate checks that both public keys are present and internally
// consistent with any private material.
func (id *Identity) Validate() error {
	if id.SigningPublic == nil {
		return fmt.Errorf("identity has no signing public key")
	}
	if id.EncryptionPublic == nil {
		return fmt.Errorf("identity has no encryption public key")
	}
	if id.SigningKey != nil && !id.SigningKey.PublicKey.Equal(id.SigningPublic) {
		return fmt.Errorf("signing public key does not match private key")
	}
	if id.EncryptionKey != nil && !id.EncryptionKey.PublicKey.Equal(id.EncryptionPublic) {
		return fmt.Errorf("encryption public key does not match private key")
	}
	return nil
}
