// Package ports defines the capability interfaces the registration
// service depends on, plus the configuration surface of the library.
// Implementations live under internal/adapters and can be substituted
// with test doubles.
package ports

// BodyCodec serializes registration request and response bodies in the
// structured format the directory expects.
type BodyCodec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
