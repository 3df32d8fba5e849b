// Package bind decodes a JSON request body into a struct and runs the
// struct's validation tags.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/validate"
)

const defaultBodyLimit = 4 << 20 // 4 MB

func bodyLimit() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultBodyLimit
	}
	return n
}

// JSON fills dest from the request body and validates it.
//
// The two return values separate the caller's branches: (errs, nil)
// carries field-level validation failures for a 400 with details, while
// (nil, err) means the body itself was unusable (malformed JSON,
// trailing garbage, or over the MAX_BODY_BYTES cap).
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, bodyLimit())

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", tooBig.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: unexpected data after body")
	}
	_, _ = io.Copy(io.Discard, r.Body)

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
