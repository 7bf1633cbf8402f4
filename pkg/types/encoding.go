package types

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Obfuscate encodes a UTF-8 string into its transport-safe form. This is a
// reversible encoding, not encryption; ids and snapshots in the history
// mirror are stored in this form.
func Obfuscate(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Deobfuscate reverses Obfuscate.
func Deobfuscate(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decoding obfuscated value: %w", err)
	}
	return string(b), nil
}

// DiagramToJSON serializes a fully loaded diagram graph to its interchange
// form. The output is deterministic for a given diagram state, which the
// synchronization routine relies on to keep repeated syncs byte-identical.
func DiagramToJSON(d *Diagram) (string, error) {
	if d == nil {
		return "", ErrInvalidData
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshaling diagram %s: %w", d.ID, err)
	}
	return string(b), nil
}

// DiagramFromJSON parses a diagram graph from its interchange form.
func DiagramFromJSON(data string) (*Diagram, error) {
	var d Diagram
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("parsing diagram: %w", err)
	}
	for _, t := range d.Tables {
		t.DiagramID = d.ID
	}
	for _, r := range d.Relationships {
		r.DiagramID = d.ID
	}
	for _, dep := range d.Dependencies {
		dep.DiagramID = d.ID
	}
	return &d, nil
}
