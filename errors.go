package annotator

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoContainer is returned by New when Config.Container is nil.
	ErrNoContainer = errors.New("annotator: container is required")
	// ErrNoSource is returned by New when neither Config.URL nor
	// Config.Source is set.
	ErrNoSource = errors.New("annotator: image source is required")
	// ErrNotReady is returned by operations that need a loaded image.
	ErrNotReady = errors.New("annotator: image not loaded")
	// ErrClosed is the terminal error of an annotator after Close.
	ErrClosed = errors.New("annotator: closed")
)

// FetchError describes a failed image fetch. Status is zero when the request
// never produced an HTTP response.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("annotator: fetch %s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("annotator: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HandlerError wraps an error returned by, or a panic raised from, a caller
// supplied hook. Hook names the hook ("OnPointAdded", "Prompt", ...).
type HandlerError struct {
	Hook string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("annotator: %s: %v", e.Hook, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
