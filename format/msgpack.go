package format

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackEncoder writes documents as MessagePack maps keyed by the same
// field names as the JSON output.
type MsgpackEncoder struct {
	w io.Writer
}

func NewMsgpackEncoder(w io.Writer) *MsgpackEncoder {
	return &MsgpackEncoder{w: w}
}

func (e *MsgpackEncoder) Encode(doc *Document) error {
	if err := msgpack.NewEncoder(e.w).Encode(doc); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}
