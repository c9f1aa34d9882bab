package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURI is returned by ParseDataURI for malformed input.
var ErrInvalidDataURI = errors.New("invalid audio data URI")

// Payload is a self-describing finalized audio recording.
type Payload struct {
	MIME string
	Data []byte
}

// DataURI renders the payload as "data:<mime>;base64,<data>", the wire
// format the transcription service expects.
func (p Payload) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", p.MIME, base64.StdEncoding.EncodeToString(p.Data))
}

// ParseDataURI is the inverse of DataURI.
func ParseDataURI(s string) (Payload, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Payload{}, ErrInvalidDataURI
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return Payload{}, ErrInvalidDataURI
	}
	mime, enc, ok := strings.Cut(meta, ";")
	if !ok || enc != "base64" || mime == "" {
		return Payload{}, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return Payload{MIME: mime, Data: data}, nil
}
