package format

import (
	"encoding/json"
	"io"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *Document) error {
	text, err := e.MarshalText(doc)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
