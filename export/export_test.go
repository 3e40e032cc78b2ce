// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/flowhub/models"
)

func group(name string, members ...string) models.Group {
	g := models.Group{Name: name}
	for _, m := range members {
		g.Members = append(g.Members, models.Participant{ID: m, Name: m})
	}
	return g
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		groups []models.Group
		want   string
	}{
		{
			name:   "single group",
			groups: []models.Group{group("Alpha", "A", "B")},
			want:   "\uFEFFGroupName,MemberName\n\"Alpha\",\"A\"\n\"Alpha\",\"B\"\n",
		},
		{
			name:   "zero groups is header only",
			groups: nil,
			want:   "\uFEFFGroupName,MemberName\n",
		},
		{
			name:   "embedded quotes doubled",
			groups: []models.Group{group(`The "Best"`, `O"Neil`)},
			want:   "\uFEFFGroupName,MemberName\n\"The \"\"Best\"\"\",\"O\"\"Neil\"\n",
		},
		{
			name:   "commas and newlines stay inside quotes",
			groups: []models.Group{group("a,b", "line1\nline2")},
			want:   "\uFEFFGroupName,MemberName\n\"a,b\",\"line1\nline2\"\n",
		},
		{
			name:   "group order then member order",
			groups: []models.Group{group("獅子隊", "王小明", "李大華"), group("Empty"), group("老虎隊", "陳美玲")},
			want:   "\uFEFFGroupName,MemberName\n\"獅子隊\",\"王小明\"\n\"獅子隊\",\"李大華\"\n\"老虎隊\",\"陳美玲\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Format(tt.groups))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Format() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatRowCount(t *testing.T) {
	out := string(Format([]models.Group{group("Alpha", "A", "B")}))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "\uFEFFGroupName,MemberName", lines[0])
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	err := Write(failingWriter{}, []models.Group{group("Alpha", "A")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "groups_2025-01-02.csv", FileName(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)))
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	sink := NewFileSink(dir)
	data := Format([]models.Group{group("Alpha", "A")})

	loc, err := sink.Put(context.Background(), "groups_2025-01-02.csv", data)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "groups_2025-01-02.csv"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// Overwrites in place and leaves no temp files behind.
	_, err = sink.Put(context.Background(), "groups_2025-01-02.csv", []byte("second"))
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got, _ = os.ReadFile(loc)
	assert.Equal(t, "second", string(got))
}

func TestFileSinkRejectsBadNames(t *testing.T) {
	sink := NewFileSink(t.TempDir())
	for _, name := range []string{"", "..", "../escape.csv", `a\b.csv`} {
		_, err := sink.Put(context.Background(), name, nil)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestFileSinkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileSink(t.TempDir()).Put(ctx, "x.csv", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3SinkPut(t *testing.T) {
	fake := &fakePutter{}
	sink := newS3Sink(fake, "hr-exports", "flowhub/runs")
	data := Format([]models.Group{group("Alpha", "A")})

	loc, err := sink.Put(context.Background(), "groups_2025-01-02.csv", data)
	require.NoError(t, err)
	assert.Equal(t, "s3://hr-exports/flowhub/runs/groups_2025-01-02.csv", loc)

	require.NotNil(t, fake.input)
	assert.Equal(t, "hr-exports", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "flowhub/runs/groups_2025-01-02.csv", aws.ToString(fake.input.Key))
	assert.Equal(t, ContentType, aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(len(data)), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, data, fake.body)
}

func TestS3SinkPutError(t *testing.T) {
	sink := newS3Sink(&fakePutter{err: errors.New("access denied")}, "hr-exports", "")
	_, err := sink.Put(context.Background(), "groups.csv", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://hr-exports/groups.csv")
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3SinkRequiresBucket(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{})
	assert.ErrorIs(t, err, ErrMissingBucket)
}

// recordingTransport answers every request with 200 and remembers it.
type recordingTransport struct {
	mu       sync.Mutex
	requests []*http.Request
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.requests = append(rt.requests, req)
	rt.mu.Unlock()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Etag": {`"etag123"`}},
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Request:    req,
	}, nil
}

func TestS3SinkAgainstClient(t *testing.T) {
	rt := &recordingTransport{}
	client := s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIA", "SECRET", ""),
		HTTPClient:  &http.Client{Transport: rt},
	}, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	sink := newS3Sink(client, "hr-exports", "")

	loc, err := sink.Put(context.Background(), "groups_2025-01-02.csv", Format(nil))
	require.NoError(t, err)
	assert.Equal(t, "s3://hr-exports/groups_2025-01-02.csv", loc)

	require.Len(t, rt.requests, 1)
	req := rt.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/hr-exports/groups_2025-01-02.csv", req.URL.Path)
	assert.Equal(t, ContentType, req.Header.Get("Content-Type"))
}
