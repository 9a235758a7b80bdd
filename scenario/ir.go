package scenario

import "encoding/json"

// Document is the JSON form of a parsed scenario file, as printed by
// "pet parse". Handlers are not serialized.
type Document struct {
	Version     string       `json:"version"` // always "1"
	SourceFile  string       `json:"sourceFile"`
	Scenarios   []Scenario   `json:"scenarios"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewDocument builds a Document, normalizing nil slices to empty ones so the
// JSON output never contains null arrays.
func NewDocument(sourceFile string, scenarios []Scenario, diags []Diagnostic) *Document {
	if scenarios == nil {
		scenarios = []Scenario{}
	}
	if diags == nil {
		diags = []Diagnostic{}
	}
	return &Document{Version: "1", SourceFile: sourceFile, Scenarios: scenarios, Diagnostics: diags}
}

// SerializeIR marshals a Document into indented JSON bytes.
func SerializeIR(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// DeserializeIR unmarshals JSON bytes into a Document. Steps decoded this
// way have no Handler.
func DeserializeIR(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
