package api

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MAPPING_PAIR_SEPARATOR  = ","
	MAPPING_VALUE_SEPARATOR = ":"
)

// ValueMapping is one display label of an enumerated sensor.
type ValueMapping struct {
	Text  string `json:"text"`
	Value uint64 `json:"value"`
}

func (mapping ValueMapping) String() string {
	return fmt.Sprintf("text: %s, value: %d", mapping.Text, mapping.Value)
}

// EncodeValueMappings packs mappings into "text:value,text:value". Labels are
// written as-is, so a label containing ':' or ',' will not decode back.
func EncodeValueMappings(mappings []ValueMapping) string {
	pairs := make([]string, 0, len(mappings))

	for _, mapping := range mappings {
		pairs = append(pairs, mapping.Text+MAPPING_VALUE_SEPARATOR+strconv.FormatUint(mapping.Value, 10))
	}

	return strings.Join(pairs, MAPPING_PAIR_SEPARATOR)
}

// DecodeValueMappings is the inverse of EncodeValueMappings. Each pair is split
// on its first ':' and the remainder must be a non-negative base-10 integer.
func DecodeValueMappings(packed string) ([]ValueMapping, error) {
	mappings := []ValueMapping{}
	if packed == "" {
		return mappings, nil
	}

	for _, pair := range strings.Split(packed, MAPPING_PAIR_SEPARATOR) {
		text, value, found := strings.Cut(pair, MAPPING_VALUE_SEPARATOR)
		if !found {
			return nil, &MappingParseError{Pair: pair, Err: errMissingValueSeparator}
		}

		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, &MappingParseError{Pair: pair, Err: err}
		}

		mappings = append(mappings, ValueMapping{Text: text, Value: parsed})
	}

	return mappings, nil
}
