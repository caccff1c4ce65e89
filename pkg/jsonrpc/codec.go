package jsonrpc

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return codec.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return codec.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) *jsoniter.Decoder {
	return codec.NewDecoder(r)
}

func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return codec.NewEncoder(w)
}

var numberCodec = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// UnmarshalNumbers decodes like Unmarshal but keeps numbers as json.Number so u64 values
// survive untouched.
func UnmarshalNumbers(data []byte, v interface{}) error {
	return numberCodec.Unmarshal(data, v)
}
