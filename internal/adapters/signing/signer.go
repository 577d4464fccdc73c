// Package signing implements the directory's request header signature
// scheme. The registration core depends only on the HeaderSigner port;
// this adapter is the default implementation and can be swapped out.
package signing

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/pem"
	"fmt"
	"time"

	"github.com/sufield/dirreg/internal/core/ports"
)

// Signer signs request headers with the device's auth and push key
// pairs. The scheme: a 17-byte nonce (0x01, 8-byte millisecond
// timestamp, 8 random bytes) prepended to length-prefixed fields, hashed
// with SHA-1, and signed with RSA PKCS#1 v1.5. Signatures carry a 2-byte
// 0x01 0x01 version prefix.
type Signer struct {
	// nonce is injectable for tests; production uses generateNonce.
	nonce func() ([]byte, error)
}

// New creates a signer.
func New() *Signer {
	return &Signer{nonce: generateNonce}
}

// NewWithNonce creates a signer with a fixed nonce source, for tests.
func NewWithNonce(nonce func() ([]byte, error)) *Signer {
	return &Signer{nonce: nonce}
}

// AddAuthSignature implements ports.HeaderSigner. It signs the body once
// with the push key and once with the auth key, emitting the push header
// set and the index-suffixed auth header set.
func (s *Signer) AddAuthSignature(headers map[string]string, body []byte, bagKey string, authKey, pushKey ports.KeyPair, pushToken []byte, index int) error {
	pushSig, pushNonce, err := s.signPayload(pushKey.PrivateKey, bagKey, "", pushToken, body)
	if err != nil {
		return fmt.Errorf("push key signature failed: %w", err)
	}
	pushCert, err := stripArmour(pushKey.Certificate)
	if err != nil {
		return fmt.Errorf("push certificate is invalid: %w", err)
	}
	headers["x-push-sig"] = pushSig
	headers["x-push-nonce"] = base64.StdEncoding.EncodeToString(pushNonce)
	headers["x-push-cert"] = pushCert
	headers["x-push-token"] = base64.StdEncoding.EncodeToString(pushToken)

	authSig, authNonce, err := s.signPayload(authKey.PrivateKey, bagKey, "", pushToken, body)
	if err != nil {
		return fmt.Errorf("auth key signature failed: %w", err)
	}
	authCert, err := stripArmour(authKey.Certificate)
	if err != nil {
		return fmt.Errorf("auth certificate is invalid: %w", err)
	}
	suffix := fmt.Sprintf("-%d", index)
	headers["x-auth-sig"+suffix] = authSig
	headers["x-auth-nonce"+suffix] = base64.StdEncoding.EncodeToString(authNonce)
	headers["x-auth-cert"+suffix] = authCert

	return nil
}

func (s *Signer) signPayload(keyPEM []byte, bagKey, queryString string, pushToken, body []byte) (string, []byte, error) {
	nonce, err := s.nonce()
	if err != nil {
		return "", nil, err
	}

	payload := buildPayload(nonce, bagKey, queryString, pushToken, body)

	key, err := parseRSAPrivateKey(keyPEM)
	if err != nil {
		return "", nil, err
	}

	digest := sha1.Sum(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, digest[:])
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	versioned := append([]byte{0x01, 0x01}, sig...)
	return base64.StdEncoding.EncodeToString(versioned), nonce, nil
}

// buildPayload assembles the signed byte sequence: nonce followed by
// 4-byte big-endian length-prefixed bag key, query string, push token,
// and body.
func buildPayload(nonce []byte, bagKey, queryString string, pushToken, body []byte) []byte {
	var buf bytes.Buffer
	buf.Write(nonce)
	writeLengthPrefixed(&buf, []byte(bagKey))
	writeLengthPrefixed(&buf, []byte(queryString))
	writeLengthPrefixed(&buf, pushToken)
	writeLengthPrefixed(&buf, body)
	return buf.Bytes()
}

func writeLengthPrefixed(buf *bytes.Buffer, b []byte) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	buf.Write(l[:])
	buf.Write(b)
}

func generateNonce() ([]byte, error) {
	nonce := make([]byte, 17)
	nonce[0] = 0x01
	binary.BigEndian.PutUint64(nonce[1:9], uint64(time.Now().UnixMilli()))
	if _, err := rand.Read(nonce[9:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("private key is not PEM encoded")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing requires an RSA private key")
	}
	return key, nil
}

// stripArmour reduces a PEM certificate to its bare base64 body, the
// form the directory expects in headers.
func stripArmour(certPEM []byte) (string, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return "", fmt.Errorf("certificate is not PEM encoded")
	}
	return base64.StdEncoding.EncodeToString(block.Bytes), nil
}
