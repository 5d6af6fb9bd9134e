package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/leapstack-labs/samplegate/pkg/validate"
)

// WriteJSONL writes one compact JSON object per result, in order.
func WriteJSONL(w io.Writer, results []validate.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("write result %s: %w", res.ID, err)
		}
	}
	return nil
}

// WriteSummary writes s as indented JSON.
func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
