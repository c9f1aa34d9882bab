package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"finspeak/internal/capture"
)

// Transcribe converts a finalized audio payload to plain text. An empty
// string is a valid outcome meaning nothing was understood; the caller must
// not forward it to extraction. Upstream failures wrap ErrTranscription.
func (c *Client) Transcribe(ctx context.Context, p capture.Payload) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.cfg.AudioModel,
		FilePath: "recording" + extensionFor(p.MIME),
		Reader:   bytes.NewReader(p.Data),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// extensionFor picks a filename extension for the payload's mime type; the
// transcription endpoint infers the container format from it.
func extensionFor(mime string) string {
	switch {
	case strings.HasPrefix(mime, "audio/webm"):
		return ".webm"
	case strings.HasPrefix(mime, "audio/ogg"):
		return ".ogg"
	case strings.HasPrefix(mime, "audio/wav"), strings.HasPrefix(mime, "audio/x-wav"):
		return ".wav"
	case strings.HasPrefix(mime, "audio/mpeg"), strings.HasPrefix(mime, "audio/mp3"):
		return ".mp3"
	case strings.HasPrefix(mime, "audio/mp4"), strings.HasPrefix(mime, "audio/m4a"):
		return ".m4a"
	default:
		return ".webm"
	}
}
