package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadDataURIRoundTrip(t *testing.T) {
	p := Payload{MIME: "audio/webm", Data: []byte("some encoded audio")}

	uri := p.DataURI()
	assert.Equal(t, "data:audio/webm;base64,c29tZSBlbmNvZGVkIGF1ZGlv", uri)

	parsed, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, p, parsed)
}

func TestParseDataURIInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing scheme", "audio/webm;base64,AAAA"},
		{"missing comma", "data:audio/webm;base64"},
		{"missing encoding", "data:audio/webm,AAAA"},
		{"wrong encoding", "data:audio/webm;hex,AAAA"},
		{"empty mime", "data:;base64,AAAA"},
		{"bad base64", "data:audio/webm;base64,not-base64!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataURI(tt.input)
			assert.ErrorIs(t, err, ErrInvalidDataURI)
		})
	}
}
