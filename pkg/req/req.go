package req

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyBody is returned when a request carries no JSON document
var ErrEmptyBody = errors.New("request body is empty")

// Decode декодирует JSON из io.Reader в структуру типа T.
// Trailing data after the first document is rejected.
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if body == nil {
		return payload, ErrEmptyBody
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return payload, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload, ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&payload); err != nil {
		return payload, err
	}
	if dec.More() {
		return payload, errors.New("unexpected data after JSON document")
	}
	return payload, nil
}

// IntOrDefault parses a query value, falling back to def when it is
// missing or not an integer
func IntOrDefault(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return n
}
