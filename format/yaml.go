package format

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type YAMLEncoder struct {
	w io.Writer
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(doc *Document) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
