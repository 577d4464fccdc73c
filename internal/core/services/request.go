package services

// Wire structures for the registration request body. Field tags follow
// the directory's keys exactly; the body codec serializes them verbatim.

// RegistrationRequest is the top-level registration body. It is built and
// consumed within a single registration transaction and has no persisted
// lifecycle beyond that call.
type RegistrationRequest struct {
	DeviceName        string            `plist:"device-name"`
	HardwareVersion   string            `plist:"hardware-version"`
	Language          string            `plist:"language"`
	OSVersion         string            `plist:"os-version"`
	SoftwareVersion   string            `plist:"software-version"`
	PrivateDeviceData map[string]string `plist:"private-device-data"`
	Services          []RequestService  `plist:"services"`
	ValidationData    []byte            `plist:"validation-data"`
}

// RequestService is one service entry of the request, populated from the
// static catalog plus per-call values.
type RequestService struct {
	Capabilities []RequestCapability `plist:"capabilities"`
	Service      string              `plist:"service"`
	SubServices  []string            `plist:"sub-services"`
	Users        []RequestUser       `plist:"users"`
}

// RequestCapability mirrors one catalog capability entry on the wire.
type RequestCapability struct {
	Flags   int    `plist:"flags"`
	Name    string `plist:"name"`
	Version int    `plist:"version"`
}

// RequestUser is the single user entry on each request service.
type RequestUser struct {
	ClientData     map[string]any `plist:"client-data"`
	KTLoggableData []byte         `plist:"kt-loggable-data,omitempty"`
	URIs           []RequestURI   `plist:"uris"`
	UserID         string         `plist:"user-id"`
}

// RequestURI wraps one handle.
type RequestURI struct {
	URI string `plist:"uri"`
}
