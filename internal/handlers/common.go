package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

var errTrailingData = errors.New("unexpected data after JSON body")

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, d)
}

// optionalQuery returns nil when the query parameter is absent or empty.
func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// decodeJSONObject decodes a single JSON object from body into dst. Only the
// listed keys are copied, matched case-sensitively. Anything after the object
// is an error.
func decodeJSONObject(body io.Reader, dst any, fields ...string) error {
	dec := json.NewDecoder(body)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	known := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if v, ok := raw[f]; ok {
			known[f] = v
		}
	}
	b, err := json.Marshal(known)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
