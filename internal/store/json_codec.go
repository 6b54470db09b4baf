package store

import "encoding/json"

// JSONCodec is the default Codec: encoding/json over Record.
type JSONCodec struct{}

func (JSONCodec) Encode(rec Record) ([]byte, error) { return json.Marshal(rec) }

func (JSONCodec) Decode(data []byte) (Record, error) {
	var rec Record
	err := json.Unmarshal(data, &rec)
	return rec, err
}
