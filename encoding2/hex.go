package encoding2

import (
	"fmt"
)

var hexMap [][]byte

// This hex encodes the binary data and writes the encoded data to the writer.
func HexEncodeToWriter(w BinaryWriter, data []byte) {
	for _, b := range data {
		_, _ = w.Write(hexMap[b])
	}
}

// Writes data surrounded by quote, doubling every occurrence of quote inside
// data.  This is the standard SQL way of escaping string literals and
// delimited identifiers.
func QuoteToWriter(w BinaryWriter, data []byte, quote byte) {
	_ = w.WriteByte(quote)
	for _, b := range data {
		if b == quote {
			_ = w.WriteByte(quote)
		}
		_ = w.WriteByte(b)
	}
	_ = w.WriteByte(quote)
}

func init() {
	hexMap = make([][]byte, 256)
	for x := 0; x < 256; x++ {
		hexMap[x] = []byte(fmt.Sprintf("%02x", x))
	}
}
