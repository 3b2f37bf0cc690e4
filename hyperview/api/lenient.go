package api

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// LenientString accepts any JSON scalar and keeps its string form. Nulls,
// objects and arrays decode to "".
type LenientString string

func (s *LenientString) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = ""
		return nil
	}

	switch raw.(type) {
	case map[string]any, []any:
		*s = ""
	default:
		*s = LenientString(cast.ToString(raw))
	}

	return nil
}
