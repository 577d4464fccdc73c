package ports

// KeyPair is an authentication certificate plus private key, both PEM
// encoded. The registration core passes key pairs through to the signer
// without inspecting them.
type KeyPair struct {
	Certificate []byte
	PrivateKey  []byte
}

// HeaderSigner adds the directory's authentication headers for one
// identity index, signing over the exact body being sent. It must be
// called once per distinct identity index the directory expects to
// authenticate. Implementations must be pure functions of their inputs
// apart from nonce entropy.
type HeaderSigner interface {
	AddAuthSignature(headers map[string]string, body []byte, bagKey string, authKey, pushKey KeyPair, pushToken []byte, index int) error
}
