package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/dirreg/internal/core/ports"
)

func testKeyPair(t *testing.T) (ports.KeyPair, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	certPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: []byte{0x30, 0x03, 0x02, 0x01, 0x01},
	})
	return ports.KeyPair{Certificate: certPEM, PrivateKey: keyPEM}, key
}

func fixedNonce() ([]byte, error) {
	nonce := make([]byte, 17)
	nonce[0] = 0x01
	for i := 1; i < len(nonce); i++ {
		nonce[i] = byte(i)
	}
	return nonce, nil
}

func TestAddAuthSignatureEmitsHeaderSets(t *testing.T) {
	authKey, _ := testKeyPair(t)
	pushKey, _ := testKeyPair(t)

	signer := New()
	headers := map[string]string{}
	err := signer.AddAuthSignature(headers, []byte("body"), "id-register", authKey, pushKey, []byte("token"), 0)
	require.NoError(t, err)

	for _, key := range []string{
		"x-push-sig", "x-push-nonce", "x-push-cert", "x-push-token",
		"x-auth-sig-0", "x-auth-nonce-0", "x-auth-cert-0",
	} {
		assert.NotEmpty(t, headers[key], key)
	}

	// The header index keys the auth set.
	headers = map[string]string{}
	require.NoError(t, signer.AddAuthSignature(headers, []byte("body"), "id-register", authKey, pushKey, []byte("token"), 1))
	assert.NotEmpty(t, headers["x-auth-sig-1"])
	assert.NotContains(t, headers, "x-auth-sig-0")
}

func TestSignatureVerifies(t *testing.T) {
	authKey, authPriv := testKeyPair(t)
	pushKey, _ := testKeyPair(t)
	pushToken := []byte("push-token-bytes")
	body := []byte("the exact body")

	signer := NewWithNonce(fixedNonce)
	headers := map[string]string{}
	require.NoError(t, signer.AddAuthSignature(headers, body, "id-register", authKey, pushKey, pushToken, 0))

	sig, err := base64.StdEncoding.DecodeString(headers["x-auth-sig-0"])
	require.NoError(t, err)

	// Signatures carry the 0x01 0x01 version prefix.
	require.Greater(t, len(sig), 2)
	assert.Equal(t, []byte{0x01, 0x01}, sig[:2])

	nonce, _ := fixedNonce()
	payload := buildPayload(nonce, "id-register", "", pushToken, body)
	digest := sha1.Sum(payload)
	require.NoError(t, rsa.VerifyPKCS1v15(&authPriv.PublicKey, crypto.SHA1, digest[:], sig[2:]))
}

func TestNonceFormat(t *testing.T) {
	nonce, err := generateNonce()
	require.NoError(t, err)

	require.Len(t, nonce, 17)
	assert.Equal(t, byte(0x01), nonce[0])
}

func TestHeaderValuesAreBase64(t *testing.T) {
	authKey, _ := testKeyPair(t)
	pushKey, _ := testKeyPair(t)

	signer := New()
	headers := map[string]string{}
	require.NoError(t, signer.AddAuthSignature(headers, []byte("b"), "id-register", authKey, pushKey, []byte("tok"), 0))

	for _, key := range []string{"x-push-sig", "x-push-nonce", "x-push-cert", "x-push-token", "x-auth-sig-0", "x-auth-nonce-0", "x-auth-cert-0"} {
		_, err := base64.StdEncoding.DecodeString(headers[key])
		assert.NoError(t, err, key)
	}
}

func TestAddAuthSignatureRejectsBadKeyMaterial(t *testing.T) {
	good, _ := testKeyPair(t)
	bad := ports.KeyPair{Certificate: []byte("not pem"), PrivateKey: []byte("not pem")}

	signer := New()
	err := signer.AddAuthSignature(map[string]string{}, []byte("b"), "id-register", bad, good, []byte("tok"), 0)
	require.Error(t, err)
}
