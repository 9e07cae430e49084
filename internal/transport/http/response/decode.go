package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// maxJSONBody bounds the small JSON bodies (auth, review, startups); document
// uploads go through the multipart parser instead.
const maxJSONBody int64 = 1 << 20

// DecodeJSON reads exactly one JSON object into dst. Unknown fields, an empty
// body and anything after the first value are invalid_json.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrInvalidJSON(errors.New("empty body"))
		}
		return domain.ErrInvalidJSON(err)
	}

	switch err := dec.Decode(&json.RawMessage{}); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return domain.ErrInvalidJSON(err)
	default:
		return domain.ErrInvalidJSON(errors.New("body holds more than one JSON value"))
	}
}
