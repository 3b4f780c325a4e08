package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSegments = []persistence.Segment{
	{ID: 0, Start: 0, End: 1.5, Text: "labas"},
	{ID: 1, Start: 1.5, End: 3, Text: "rytas"},
}

func TestWriteTxt_WithTimestamps(t *testing.T) {
	p := filepath.Join(t.TempDir(), "transcript.txt")
	require.Nil(t, WriteTxt(p, testSegments, true))
	assert.Equal(t, "[00:00:00,000 - 00:00:01,500] labas\n[00:00:01,500 - 00:00:03,000] rytas", read(t, p))
}

func TestWriteTxt_TextOnly(t *testing.T) {
	p := filepath.Join(t.TempDir(), "transcript.txt")
	require.Nil(t, WriteTxt(p, testSegments, false))
	assert.Equal(t, "labas\nrytas", read(t, p))
}

func TestWriteTxt_Empty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "transcript.txt")
	require.Nil(t, WriteTxt(p, nil, true))
	assert.Equal(t, "", read(t, p))
}

func TestWriteSrt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "subtitles.srt")
	require.Nil(t, WriteSrt(p, testSegments))
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,500\nlabas\n\n2\n00:00:01,500 --> 00:00:03,000\nrytas\n", read(t, p))
}

func TestWriteSrt_TrimsText(t *testing.T) {
	p := filepath.Join(t.TempDir(), "subtitles.srt")
	require.Nil(t, WriteSrt(p, []persistence.Segment{{ID: 0, Start: 0, End: 1, Text: " labas  "}}))
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,000\nlabas\n", read(t, p))
}

func TestWriteSrt_Empty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "subtitles.srt")
	require.Nil(t, WriteSrt(p, nil))
	assert.Equal(t, "", read(t, p))
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "segments.json")
	require.Nil(t, WriteJSON(p, "lt", testSegments))

	var res struct {
		Language string                `json:"language"`
		Segments []persistence.Segment `json:"segments"`
	}
	require.Nil(t, json.Unmarshal([]byte(read(t, p)), &res))
	assert.Equal(t, "lt", res.Language)
	assert.Equal(t, testSegments, res.Segments)
}

func TestWriteJSON_EmptySegmentsList(t *testing.T) {
	p := filepath.Join(t.TempDir(), "segments.json")
	require.Nil(t, WriteJSON(p, "lt", nil))
	assert.Contains(t, read(t, p), `"segments": []`)
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	outputs, err := WriteAll(dir, "lt", testSegments)
	require.Nil(t, err)
	assert.Len(t, outputs, 3)
	assert.Equal(t, filepath.Join(dir, TxtFile), outputs[FormatTxt])
	assert.Equal(t, filepath.Join(dir, SrtFile), outputs[FormatSrt])
	assert.Equal(t, filepath.Join(dir, JSONFile), outputs[FormatJSON])
	for _, p := range outputs {
		fi, err := os.Stat(p)
		require.Nil(t, err)
		assert.True(t, fi.Size() > 0)
	}
}

func TestWriteAll_FailsOnNoDir(t *testing.T) {
	_, err := WriteAll("/xxx-no-such-dir", "lt", testSegments)
	assert.NotNil(t, err)
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.Nil(t, err)
	return string(data)
}
