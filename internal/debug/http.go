// Package debug dumps model API traffic for --debug-api.
package debug

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const logBaseName = "skillclaw-debug-api"

// OpenLogFile creates the next free skillclaw-debug-api-N.log in dir.
func OpenLogFile(dir string) (*os.File, error) {
	for i := 0; i < 100; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s-%d.log", logBaseName, i))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrapf(err, "failed to create %s", path)
		}
	}
	return nil, errors.Errorf("no free debug log name in %s", dir)
}

// Transport wraps an http.RoundTripper and logs requests and responses
type Transport struct {
	Transport http.RoundTripper
	Log       *logrus.Logger
}

// NewHTTPClient returns a client logging all traffic to w.
func NewHTTPClient(w io.Writer) *http.Client {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})

	return &http.Client{
		Transport: &Transport{
			Transport: http.DefaultTransport,
			Log:       log,
		},
	}
}

// RoundTrip implements the http.RoundTripper interface
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := t.Log.WithFields(logrus.Fields{"method": req.Method, "url": req.URL.String()})

	var streaming bool
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read request body")
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		streaming = isStreamingRequest(body)

		log.WithField("headers", redactHeaders(req.Header)).Debugf(">>> request\n%s", prettyJSON(body))
	}

	start := time.Now()
	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		log.WithError(err).WithField("elapsed", time.Since(start)).Debug("<<< request failed")
		return nil, err
	}

	log = log.WithField("status", resp.Status)
	if streaming && strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		log.Debug("<<< response stream")
		resp.Body = &streamLogger{ReadCloser: resp.Body, log: log}
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	log.WithField("elapsed", time.Since(start)).Debugf("<<< response\n%s", prettyJSON(body))
	return resp, nil
}

// streamLogger logs each server-sent event as it is read
type streamLogger struct {
	io.ReadCloser
	log     *logrus.Entry
	partial string
}

func (s *streamLogger) Read(p []byte) (int, error) {
	n, err := s.ReadCloser.Read(p)
	if n > 0 {
		s.partial += string(p[:n])
		lines := strings.Split(s.partial, "\n")
		s.partial = lines[len(lines)-1]
		for _, line := range lines[:len(lines)-1] {
			s.logEvent(line)
		}
	}
	if err == io.EOF && s.partial != "" {
		s.logEvent(s.partial)
		s.partial = ""
	}
	return n, err
}

func (s *streamLogger) logEvent(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if payload == "[DONE]" {
		return
	}
	s.log.Debug(payload)
}

func isStreamingRequest(body []byte) bool {
	var req struct {
		Stream bool `json:"stream"`
	}
	return json.Unmarshal(body, &req) == nil && req.Stream
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		switch strings.ToLower(k) {
		case "authorization", "x-api-key", "api-key":
			out[k] = "***"
		default:
			out[k] = strings.Join(v, ", ")
		}
	}
	return out
}

func prettyJSON(body []byte) string {
	var v any
	if json.Unmarshal(body, &v) != nil {
		return string(body)
	}
	formatted, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(formatted)
}
