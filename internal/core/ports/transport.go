package ports

import "context"

// Transport delivers one signed registration body to the directory and
// returns the raw response body. Timeout and cancellation policy belong
// to the caller through ctx; the core defines neither.
type Transport interface {
	Post(ctx context.Context, endpoint string, headers map[string]string, body []byte) ([]byte, error)
}
