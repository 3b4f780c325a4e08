package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/airenas/audio2text/internal/pkg/persistence"
	"github.com/pkg/errors"
)

// Format names returned by WriteAll
const (
	FormatTxt  = "txt"
	FormatSrt  = "srt"
	FormatJSON = "json"
)

// File names written next to the input audio
const (
	TxtFile  = "transcript.txt"
	SrtFile  = "subtitles.srt"
	JSONFile = "segments.json"
)

// WriteTxt renders one line per segment,
// with an optional bracketed timestamp prefix
func WriteTxt(path string, segments []persistence.Segment, withTimestamps bool) error {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if withTimestamps {
			lines = append(lines, fmt.Sprintf("[%s - %s] %s", Timestamp(seg.Start), Timestamp(seg.End), seg.Text))
		} else {
			lines = append(lines, seg.Text)
		}
	}
	return write(path, []byte(strings.Join(lines, "\n")))
}

// WriteSrt renders numbered subtitle blocks separated by a blank line.
// No segments produces an empty file, which is a valid subtitle file
func WriteSrt(path string, segments []persistence.Segment) error {
	parts := make([]string, 0, len(segments))
	for i, seg := range segments {
		parts = append(parts, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			i+1, Timestamp(seg.Start), Timestamp(seg.End), strings.TrimSpace(seg.Text)))
	}
	return write(path, []byte(strings.Join(parts, "\n")))
}

type jsonResult struct {
	Language string                `json:"language"`
	Segments []persistence.Segment `json:"segments"`
}

// WriteJSON renders the language and the full ordered segment list
func WriteJSON(path string, language string, segments []persistence.Segment) error {
	if segments == nil {
		segments = []persistence.Segment{}
	}
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(jsonResult{Language: language, Segments: segments})
	if err != nil {
		return errors.Wrap(err, "Can't marshal segments")
	}
	return write(path, b.Bytes())
}

// WriteAll materializes txt, srt and json files into dir and
// returns the format to path mapping
func WriteAll(dir string, language string, segments []persistence.Segment) (map[string]string, error) {
	res := map[string]string{
		FormatTxt:  filepath.Join(dir, TxtFile),
		FormatSrt:  filepath.Join(dir, SrtFile),
		FormatJSON: filepath.Join(dir, JSONFile),
	}
	if err := WriteTxt(res[FormatTxt], segments, true); err != nil {
		return nil, err
	}
	if err := WriteSrt(res[FormatSrt], segments); err != nil {
		return nil, err
	}
	if err := WriteJSON(res[FormatJSON], language, segments); err != nil {
		return nil, err
	}
	return res, nil
}

func write(path string, data []byte) error {
	err := os.WriteFile(path, data, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write "+path)
	}
	return nil
}
