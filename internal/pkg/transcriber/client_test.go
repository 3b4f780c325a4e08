package transcriber

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_FailsOnNoURL(t *testing.T) {
	cmdapp.Config.Set("transcriber.url", "")
	_, err := NewClient()
	assert.NotNil(t, err)
}

func TestModelLabel(t *testing.T) {
	cmdapp.Config.Set("transcriber.url", "http://olia")
	cmdapp.Config.Set("transcriber.model", "large-v3 (cuda)")
	c, err := NewClient()
	require.Nil(t, err)
	assert.Equal(t, "large-v3 (cuda)", c.Model())

	cmdapp.Config.Set("transcriber.model", "")
	c, err = NewClient()
	require.Nil(t, err)
	assert.Equal(t, "remote", c.Model())
}

func TestTranscribe_LanguageFirst(t *testing.T) {
	c := newTestClient(t, `{"language":"lt"}
{"id":0,"start":0,"end":1.5,"text":"labas"}
{"id":1,"start":1.5,"end":3,"text":"rytas"}
`)
	stream, err := c.Transcribe(context.Background(), newTestAudio(t), "auto")
	require.Nil(t, err)
	defer stream.Close()

	seg, err := stream.Next()
	require.Nil(t, err)
	assert.Equal(t, &Segment{ID: 0, Start: 0, End: 1.5, Text: "labas"}, seg)
	require.NotNil(t, stream.Info())
	assert.Equal(t, "lt", stream.Info().Language)

	seg, err = stream.Next()
	require.Nil(t, err)
	assert.Equal(t, 1, seg.ID)

	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)
}

func TestTranscribe_LanguageAfterSegments(t *testing.T) {
	c := newTestClient(t, `{"id":0,"start":0,"end":1,"text":"labas"}
{"language":"lt"}
`)
	stream, err := c.Transcribe(context.Background(), newTestAudio(t), "auto")
	require.Nil(t, err)
	defer stream.Close()

	_, err = stream.Next()
	require.Nil(t, err)
	assert.Nil(t, stream.Info())

	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)
	require.NotNil(t, stream.Info())
	assert.Equal(t, "lt", stream.Info().Language)
}

func TestTranscribe_NoSegments(t *testing.T) {
	c := newTestClient(t, `{"language":"lt"}
`)
	stream, err := c.Transcribe(context.Background(), newTestAudio(t), "auto")
	require.Nil(t, err)
	defer stream.Close()

	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)
}

func TestTranscribe_EmptySegmentText(t *testing.T) {
	c := newTestClient(t, `{"id":0,"start":0,"end":1,"text":""}
`)
	stream, err := c.Transcribe(context.Background(), newTestAudio(t), "auto")
	require.Nil(t, err)
	defer stream.Close()

	seg, err := stream.Next()
	require.Nil(t, err)
	assert.Equal(t, "", seg.Text)
}

func TestTranscribe_FailsOnWrongCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "olia", http.StatusInternalServerError)
	}))
	defer server.Close()
	c := newClientFor(t, server.URL)
	_, err := c.Transcribe(context.Background(), newTestAudio(t), "auto")
	assert.NotNil(t, err)
}

func TestTranscribe_FailsOnBrokenStream(t *testing.T) {
	c := newTestClient(t, `{"id":0,"start":0,"end":1,"text":"labas"}
{broken
`)
	stream, err := c.Transcribe(context.Background(), newTestAudio(t), "auto")
	require.Nil(t, err)
	defer stream.Close()

	_, err = stream.Next()
	require.Nil(t, err)
	_, err = stream.Next()
	assert.NotNil(t, err)
	assert.NotEqual(t, io.EOF, err)
}

func TestTranscribe_FailsOnNoFile(t *testing.T) {
	c := newClientFor(t, "http://olia")
	_, err := c.Transcribe(context.Background(), "/xxx/no-file.wav", "auto")
	assert.NotNil(t, err)
}

func TestTranscribe_SendsForm(t *testing.T) {
	var gotLanguage, gotFile string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, r.ParseMultipartForm(1<<20))
		gotLanguage = r.FormValue("language")
		_, fh, err := r.FormFile("file")
		require.Nil(t, err)
		gotFile = fh.Filename
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	c := newClientFor(t, server.URL)
	stream, err := c.Transcribe(context.Background(), newTestAudio(t), "lt")
	require.Nil(t, err)
	stream.Close()
	assert.Equal(t, "lt", gotLanguage)
	assert.Equal(t, "input.wav", gotFile)
}

func newTestClient(t *testing.T, response string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return newClientFor(t, server.URL)
}

func newClientFor(t *testing.T, url string) *Client {
	t.Helper()
	cmdapp.Config.Set("transcriber.url", url)
	cmdapp.Config.Set("transcriber.model", "test")
	c, err := NewClient()
	require.Nil(t, err)
	c.httpclient.RetryMax = 0
	return c
}

func newTestAudio(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "input.wav")
	require.Nil(t, os.WriteFile(p, []byte("RIFF-olia"), 0644))
	return p
}
