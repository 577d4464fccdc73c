// Package plistcodec adapts howett.net/plist to the BodyCodec port.
package plistcodec

import (
	"fmt"

	"howett.net/plist"
)

// Codec marshals bodies as XML property lists and accepts any property
// list format on the way back; the directory has been observed to answer
// in both XML and binary form.
type Codec struct{}

// New creates a plist body codec.
func New() *Codec {
	return &Codec{}
}

// Marshal implements ports.BodyCodec.
func (*Codec) Marshal(v any) ([]byte, error) {
	data, err := plist.Marshal(v, plist.XMLFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plist body: %w", err)
	}
	return data, nil
}

// Unmarshal implements ports.BodyCodec.
func (*Codec) Unmarshal(data []byte, v any) error {
	if _, err := plist.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode plist body: %w", err)
	}
	return nil
}
