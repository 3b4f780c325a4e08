package transcriber

import "context"

// Segment is one recognized span of speech
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Info keeps metadata the engine resolves during transcription
type Info struct {
	Language string `json:"language"`
}

// Stream is a pull based sequence of segments.
// Next returns io.EOF after the last segment.
// Info returns nil until the engine has detected the language.
// Detection may happen before, between or after segments,
// callers fall back to the requested language if it never does
type Stream interface {
	Next() (*Segment, error)
	Info() *Info
	Close() error
}

// Transcriber turns an audio file into a segment stream.
// It may fail before producing the stream or during iteration
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, language string) (Stream, error)
	Model() string
}
