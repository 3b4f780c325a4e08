package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
	"github.com/pkg/errors"

	"github.com/hashicorp/go-retryablehttp"
)

// Client comunicates with the transcription engine service.
// The engine answers a multipart audio POST with newline delimited JSON:
// segment lines and a detection line with the resolved language,
// in no guaranteed order relative to each other
type Client struct {
	httpclient *retryablehttp.Client
	url        string
	model      string
}

// NewClient creates a transcription engine client
func NewClient() (*Client, error) {
	res := Client{}
	urlStr := cmdapp.Config.GetString("transcriber.url")
	if urlStr == "" {
		return nil, errors.New("No transcriber.url provided")
	}
	res.url = urlStr
	res.model = cmdapp.Config.GetString("transcriber.model")
	if res.model == "" {
		res.model = "remote"
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil
	return &res, nil
}

// Model returns descriptive engine label
func (c *Client) Model() string {
	return c.model
}

// Transcribe posts the audio and returns a lazy stream over the response
func (c *Client) Transcribe(ctx context.Context, audioPath string, language string) (Stream, error) {
	cmdapp.Log.Infof("Sending audio to: %s", c.url)
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open audio file")
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, errors.Wrap(err, "Can't add file to request")
	}
	_, err = io.Copy(part, file)
	if err != nil {
		return nil, errors.Wrap(err, "Can't add file to request")
	}
	writer.WriteField("language", language)
	writer.Close()

	req, err := retryablehttp.NewRequest(http.MethodPost, c.url, body.Bytes())
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Can't call transcription engine")
	}
	if !(resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 100))
		return nil, errors.Errorf("Wrong response code from engine. Code: %d\n%s", resp.StatusCode, string(b))
	}
	return &httpStream{body: resp.Body, decoder: json.NewDecoder(resp.Body)}, nil
}

type wireLine struct {
	Language string   `json:"language,omitempty"`
	ID       *int     `json:"id,omitempty"`
	Start    float64  `json:"start,omitempty"`
	End      float64  `json:"end,omitempty"`
	Text     *string  `json:"text,omitempty"`
}

type httpStream struct {
	body    io.ReadCloser
	decoder *json.Decoder
	info    *Info
}

func (s *httpStream) Next() (*Segment, error) {
	for {
		var line wireLine
		err := s.decoder.Decode(&line)
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, errors.Wrap(err, "Can't decode engine response")
		}
		if line.ID != nil || line.Text != nil {
			res := &Segment{Start: line.Start, End: line.End}
			if line.ID != nil {
				res.ID = *line.ID
			}
			if line.Text != nil {
				res.Text = *line.Text
			}
			return res, nil
		}
		if line.Language != "" {
			s.info = &Info{Language: line.Language}
		}
		// skip unknown lines
	}
}

func (s *httpStream) Info() *Info {
	return s.info
}

func (s *httpStream) Close() error {
	return s.body.Close()
}
