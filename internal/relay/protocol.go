// Package relay implements the research relay wire protocol and a
// reconnecting WebSocket client for it. The protocol is JSON text frames:
// requests carry a correlation id, a method name and free-form params;
// responses echo the id with either a result or an error object.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Supported relay methods.
const (
	MethodSearch   = "search/web"
	MethodFetchURL = "fetch/url"
)

// Request is a single relay request frame.
// The id may be any JSON scalar; this client always sends uuid strings,
// but the raw form is kept so servers and clients that use numeric ids
// interoperate.
type Request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is a single relay response frame. Exactly one of Result and
// Error is set.
type Response struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorPayload   `json:"error,omitempty"`
}

// ErrorPayload is the wire form of an operation error.
type ErrorPayload struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// NewID allocates a fresh correlation id.
func NewID() json.RawMessage {
	b, _ := json.Marshal(uuid.NewString())
	return b
}

// SearchParams are the params for a search/web request.
type SearchParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResult is one entry returned by search/web.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// SearchResultSet is the result payload of search/web.
type SearchResultSet struct {
	Results []SearchResult `json:"results"`
}

// FetchParams are the params for a fetch/url request.
type FetchParams struct {
	URL       string `json:"url"`
	Summarize bool   `json:"summarize,omitempty"`
}

// FetchResult is the result payload of fetch/url.
type FetchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// Kind classifies relay errors. The values travel on the wire, so they
// are stable strings rather than iota constants.
type Kind string

const (
	// KindConnection marks requests lost to a dropped or unavailable socket.
	KindConnection Kind = "connection_error"
	// KindTimeout marks requests that saw no response within the call timeout.
	KindTimeout Kind = "timeout_error"
	// KindInvalidArgument marks empty or malformed queries and URLs.
	KindInvalidArgument Kind = "invalid_argument"
	// KindFetch marks remote fetches that failed or returned unusable content.
	KindFetch Kind = "fetch_error"
	// KindProtocol marks malformed frames.
	KindProtocol Kind = "protocol_error"
)

// Error is a typed relay error, usable on both ends of the socket.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds a typed relay error.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a relay error of the given kind.
func IsKind(err error, kind Kind) bool {
	var re *Error
	if !errors.As(err, &re) {
		return false
	}
	return re.Kind == kind
}

// ToPayload converts an error into its wire form. Untyped errors map to
// a payload without a kind.
func ToPayload(err error) *ErrorPayload {
	var re *Error
	if errors.As(err, &re) {
		return &ErrorPayload{Kind: string(re.Kind), Message: re.Message}
	}
	return &ErrorPayload{Message: err.Error()}
}

// ErrorFromPayload converts a wire error back into a typed error.
// A payload without a kind comes from a server that does not classify
// its failures; those surface as generic fetch-side errors.
func ErrorFromPayload(p *ErrorPayload) error {
	if p == nil {
		return nil
	}
	if p.Kind == "" {
		return &Error{Kind: KindFetch, Message: p.Message}
	}
	return &Error{Kind: Kind(p.Kind), Message: p.Message}
}
