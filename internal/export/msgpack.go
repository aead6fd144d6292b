package export

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// WriteMsgpack encodes r in MessagePack with the same keys as the JSON
// report.
func WriteMsgpack(out io.Writer, r Report) error {
	enc := msgpack.NewEncoder(out)
	enc.SetCustomStructTag("json")
	return enc.Encode(r)
}
