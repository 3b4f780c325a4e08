package transcriber

import (
	"context"
	"io"
	"sync"
)

// Serialized wraps a transcriber that is not safe for concurrent use.
// Only one Transcribe-to-Close cycle runs at a time,
// other workers block until the current stream is drained or closed
func Serialized(t Transcriber) Transcriber {
	return &serialized{t: t}
}

type serialized struct {
	t Transcriber
	m sync.Mutex
}

func (s *serialized) Model() string {
	return s.t.Model()
}

func (s *serialized) Transcribe(ctx context.Context, audioPath string, language string) (Stream, error) {
	s.m.Lock()
	st, err := s.t.Transcribe(ctx, audioPath, language)
	if err != nil {
		s.m.Unlock()
		return nil, err
	}
	res := &lockedStream{Stream: st}
	res.unlock = func() { s.m.Unlock() }
	return res, nil
}

type lockedStream struct {
	Stream
	once   sync.Once
	unlock func()
}

func (s *lockedStream) Next() (*Segment, error) {
	seg, err := s.Stream.Next()
	if err == io.EOF {
		s.release()
	}
	return seg, err
}

func (s *lockedStream) Close() error {
	err := s.Stream.Close()
	s.release()
	return err
}

func (s *lockedStream) release() {
	s.once.Do(s.unlock)
}
