package generator

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// Kind tags which known shape a response matched
type Kind int

const (
	// KindUnknown means candidates[0].content.parts was absent or not a list.
	KindUnknown Kind = iota
	// KindCandidates means the first candidate exposes an ordered parts list.
	KindCandidates
)

func (k Kind) String() string {
	if k == KindCandidates {
		return "candidates"
	}
	return "unknown"
}

// ErrInvalidResponse is returned when the model response is not a JSON document
var ErrInvalidResponse = errors.New("invalid model response")

// Response is the model output: the typed parts view when the expected shape
// is present, and always the raw document for generic scanning.
type Response struct {
	Kind Kind
	// Parts of candidates[0].content; entries that failed to decode are zero Parts.
	Parts []Part
	Raw   json.RawMessage
}

// Document returns the parsed raw document for traversal
func (r *Response) Document() gjson.Result {
	if r == nil || len(r.Raw) == 0 {
		return gjson.Result{}
	}
	return gjson.ParseBytes(r.Raw)
}

// String returns the raw document, used for debug logging
func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return string(r.Raw)
}

// ParseResponse classifies raw into a Response. Only a non-JSON payload is an error.
func ParseResponse(raw []byte) (*Response, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidResponse
	}

	resp := &Response{
		Kind: KindUnknown,
		Raw:  json.RawMessage(raw),
	}

	parts := gjson.GetBytes(raw, "candidates.0.content.parts")
	if !parts.IsArray() {
		return resp, nil
	}

	resp.Kind = KindCandidates
	for _, item := range parts.Array() {
		var part Part
		if item.IsObject() {
			// A malformed part stays zero-valued and contributes nothing.
			_ = json.Unmarshal([]byte(item.Raw), &part)
		}
		resp.Parts = append(resp.Parts, part)
	}

	return resp, nil
}
