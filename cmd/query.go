package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

// queryJSON evaluates a jsonpath expression on the json encoding of v.
func queryJSON(v any, path string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", path, err)
	}
	return jval, nil
}

// writeJSON writes v as indented json. When path is set, only the result of
// the query is written.
func writeJSON(w io.Writer, v any, path string) error {
	if path != "" {
		var err error
		if v, err = queryJSON(v, path); err != nil {
			return err
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
