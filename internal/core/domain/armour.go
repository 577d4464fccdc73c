package domain

import (
	"encoding/pem"
	"strings"
)

// ArmourCertificate wraps a DER certificate blob from the directory in
// the textual envelope downstream messaging protocols exchange.
func ArmourCertificate(der []byte) string {
	block := &pem.Block{Type: "CERTIFICATE", Bytes: der}
	return strings.TrimSpace(string(pem.EncodeToMemory(block)))
}
