package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// writeDocument prints an encoded JSON document in the requested format.
// YAML output keeps the JSON key order.
func writeDocument(w io.Writer, format string, encoded []byte) error {
	switch format {
	case "", "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, encoded, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err := w.Write(buf.Bytes())
		return err
	case "yaml", "yml":
		var node yaml.Node
		if err := yaml.Unmarshal(encoded, &node); err != nil {
			return err
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// writeValue encodes v as JSON first so both formats share field names.
func writeValue(w io.Writer, format string, v interface{}) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeDocument(w, format, encoded)
}

// blockStyle drops the flow and quoting styles a JSON source leaves on nodes.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
