package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the Results.series[0].data path
// cannot be followed in an API response.
var ErrMalformedResponse = errors.New("malformed series response")

// ExtractKind classifies the outcome of pulling the series out of a response.
type ExtractKind int

const (
	// ExtractMalformed means the response did not have the expected shape.
	ExtractMalformed ExtractKind = iota
	// ExtractEmpty means the shape was valid but the series had no data,
	// which BLS does for county codes that do not exist.
	ExtractEmpty
	// ExtractFound means at least one record was returned.
	ExtractFound
)

func (k ExtractKind) String() string {
	switch k {
	case ExtractFound:
		return "found"
	case ExtractEmpty:
		return "empty"
	default:
		return "malformed"
	}
}

// Extraction is the result of ExtractSeries. Callers switch on Kind.
type Extraction struct {
	Kind    ExtractKind
	Records []RawRecord

	// Populated for malformed responses.
	Reason string
	Body   []byte

	// BLS request status and messages, when present.
	Status   string
	Messages []string
}

// Err returns nil unless the extraction is malformed.
func (e Extraction) Err() error {
	if e.Kind != ExtractMalformed {
		return nil
	}
	if e.Status != "" {
		return fmt.Errorf("%w: %s (status %s)", ErrMalformedResponse, e.Reason, e.Status)
	}
	return fmt.Errorf("%w: %s", ErrMalformedResponse, e.Reason)
}

type responseEnvelope struct {
	Status  json.RawMessage `json:"status"`
	Message json.RawMessage `json:"message"`
	Results json.RawMessage `json:"Results"`
}

type resultsEnvelope struct {
	Series json.RawMessage `json:"series"`
}

type seriesEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// ExtractSeries follows Results.series[0].data in a raw API response body.
// A missing key, an empty series list, or a value of the wrong JSON type at
// any level is reported as ExtractMalformed with the raw body attached.
func ExtractSeries(body []byte) Extraction {
	var env responseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return malformed(body, fmt.Sprintf("response is not a JSON object: %v", err))
	}

	status, messages := decodeStatus(env)

	fail := func(reason string) Extraction {
		ex := malformed(body, reason)
		ex.Status = status
		ex.Messages = messages
		return ex
	}

	if isNull(env.Results) {
		return fail("missing Results")
	}
	var results resultsEnvelope
	if err := json.Unmarshal(env.Results, &results); err != nil {
		return fail("Results is not an object")
	}

	if isNull(results.Series) {
		return fail("missing Results.series")
	}
	var series []json.RawMessage
	if err := json.Unmarshal(results.Series, &series); err != nil {
		return fail("Results.series is not a list")
	}
	if len(series) == 0 {
		return fail("Results.series is empty")
	}

	var first seriesEnvelope
	if isNull(series[0]) {
		return fail("Results.series[0] is null")
	}
	if err := json.Unmarshal(series[0], &first); err != nil {
		return fail("Results.series[0] is not an object")
	}
	if isNull(first.Data) {
		return fail("missing Results.series[0].data")
	}

	var records []RawRecord
	if err := json.Unmarshal(first.Data, &records); err != nil {
		return fail(fmt.Sprintf("Results.series[0].data is not a list of records: %v", err))
	}

	kind := ExtractFound
	if len(records) == 0 {
		kind = ExtractEmpty
	}
	return Extraction{Kind: kind, Records: records, Status: status, Messages: messages}
}

func malformed(body []byte, reason string) Extraction {
	return Extraction{Kind: ExtractMalformed, Reason: reason, Body: body}
}

// decodeStatus reads the optional status and message fields, ignoring
// either one if it has an unexpected type.
func decodeStatus(env responseEnvelope) (string, []string) {
	var status string
	if !isNull(env.Status) {
		_ = json.Unmarshal(env.Status, &status)
	}
	var messages []string
	if !isNull(env.Message) {
		_ = json.Unmarshal(env.Message, &messages)
	}
	return status, messages
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
