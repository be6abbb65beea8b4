package spotler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ResultKind distinguishes the success-shaped outcomes of a call.
type ResultKind int

const (
	// ResultDocument carries a parsed JSON document in Value.
	ResultDocument ResultKind = iota
	// ResultNoContent is a 204 response. Value is true.
	ResultNoContent
	// ResultUnparseable is a 2xx response whose body was empty, malformed or
	// JSON null. Value is false. A JSON false payload is a ResultDocument.
	ResultUnparseable
)

func (k ResultKind) String() string {
	switch k {
	case ResultDocument:
		return "document"
	case ResultNoContent:
		return "no_content"
	case ResultUnparseable:
		return "unparseable"
	default:
		return "unknown"
	}
}

// Result is the normalized success outcome of Client.Execute.
type Result struct {
	Kind       ResultKind
	Value      any
	StatusCode int
	Raw        []byte
}

var errNoDocument = errors.New("spotler: result has no document")

// Decode unmarshals the raw body into v. It fails for results that carry no
// document.
func (r *Result) Decode(v any) error {
	if r.Kind != ResultDocument {
		return fmt.Errorf("%w: %s", errNoDocument, r.Kind)
	}

	return json.Unmarshal(r.Raw, v)
}

// Normalize classifies a completed exchange. The first matching rule wins:
// 404 is NotFound, 204 is a no-content success, anything above 299 is a
// System or API error depending on whether the body parses, and the rest is
// a parsed document or a soft parse failure.
func Normalize(endpoint string, statusCode int, body []byte) (*Result, error) {
	switch {
	case statusCode == http.StatusNotFound:
		return nil, newNotFoundError(endpoint, statusCode)

	case statusCode == http.StatusNoContent:
		return &Result{Kind: ResultNoContent, Value: true, StatusCode: statusCode, Raw: body}, nil

	case statusCode > 299:
		doc, ok := parseDocument(body)
		if !ok {
			return nil, newSystemError(endpoint, statusCode)
		}

		return nil, newAPIError(endpoint, statusCode, stringField(doc, "message"), stringField(doc, "errorType"))
	}

	doc, ok := parseDocument(body)
	if !ok {
		return &Result{Kind: ResultUnparseable, Value: false, StatusCode: statusCode, Raw: body}, nil
	}

	return &Result{Kind: ResultDocument, Value: doc, StatusCode: statusCode, Raw: body}, nil
}

// parseDocument decodes body as a single JSON value. Empty bodies, malformed
// JSON, trailing data and a literal null all count as unparseable.
func parseDocument(body []byte) (any, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, false
	}
	if doc == nil {
		return nil, false
	}

	return doc, true
}

// stringField reads a string member of a JSON object. Missing members,
// non-string members and non-object documents yield "".
func stringField(doc any, key string) string {
	obj, ok := doc.(map[string]any)
	if !ok {
		return ""
	}

	s, _ := obj[key].(string)

	return s
}
