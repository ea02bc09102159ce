package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/claimstream/internal/errs"
)

// ExtractJSONObject locates the single JSON object embedded in a free
// text model response: the substring from the first '{' to the last '}'.
// Responses without a well-formed object fail with a parse error. This
// is the boundary between "model call" and "schema validation".
func ExtractJSONObject(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end < start {
		return nil, errs.Parse("extract JSON", fmt.Errorf("no JSON object in response"))
	}

	raw := json.RawMessage(text[start : end+1])
	if !json.Valid(raw) {
		return nil, errs.Parse("extract JSON", fmt.Errorf("malformed JSON object in response"))
	}

	return raw, nil
}
