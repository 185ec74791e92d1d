package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"mattercore/pkg/domain"
)

// NewMockForTests returns a *Store backed by an in-memory fake HTTP
// transport. Only the Get/Put subset used by the snapshot store is handled.
func NewMockForTests() *Store {
	rt := &mockRoundTripper{objects: map[string][]byte{}}
	cfg, _ := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		// The fake transport stores raw request bodies, so keep the SDK from
		// wrapping payloads in aws-chunked checksum framing.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return &Store{client: client, bucket: "mock-bucket", key: domain.StorageKey + ".json"}
}

type mockRoundTripper struct {
	objects map[string][]byte
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		m.objects[key] = body
		return xmlResponse(http.StatusOK, ""), nil
	case http.MethodGet:
		obj, ok := m.objects[key]
		if !ok {
			return xmlResponse(http.StatusNotFound,
				`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`), nil
		}
		resp := xmlResponse(http.StatusOK, "")
		resp.Body = io.NopCloser(bytes.NewReader(obj))
		resp.ContentLength = int64(len(obj))
		return resp, nil
	case http.MethodHead:
		if _, ok := m.objects[key]; !ok {
			return xmlResponse(http.StatusNotFound, ""), nil
		}
		return xmlResponse(http.StatusOK, ""), nil
	default:
		return xmlResponse(http.StatusMethodNotAllowed, ""), nil
	}
}

func xmlResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/xml"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}
