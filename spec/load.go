package spec

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v4"
)

// Load decodes a contract document from YAML or JSON bytes. JSON documents
// decode through the YAML path, which accepts JSON as a subset.
func Load(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("spec: document is empty")
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "spec: failed to decode document")
	}
	return &doc, nil
}

// LoadFile reads and decodes a contract document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "spec: failed to read %s", path)
	}
	doc, err := Load(data)
	if err != nil {
		return nil, errors.Wrapf(err, "spec: %s", path)
	}
	return doc, nil
}
