package services

// RegistrationResponse is the subset of the directory's response the
// validation state machine consumes. Pointer and nil-slice fields keep
// absent keys distinguishable from zero values, so each state machine
// branch checks presence, not emptiness of a default.
type RegistrationResponse struct {
	Status   *int              `plist:"status"`
	Services []ResponseService `plist:"services"`
}

// ResponseService is one service entry of the response. The directory has
// only been observed to answer positionally; Service is consulted as a
// cross-check when present.
type ResponseService struct {
	Service string         `plist:"service"`
	Status  *int           `plist:"status"`
	Users   []ResponseUser `plist:"users"`
}

// ResponseUser carries the issued certificate for one user entry.
type ResponseUser struct {
	Cert   []byte `plist:"cert"`
	Status *int   `plist:"status"`
}
