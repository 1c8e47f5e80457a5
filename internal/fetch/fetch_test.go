package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBytesSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("resume body"))
	}))
	defer srv.Close()

	c := NewClient(time.Second, "", 0, nil)
	got := c.FetchBytes(context.Background(), srv.URL)

	assert.Equal(t, "resume body", string(got))
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestFetchBytesFallsBack(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer notFound.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer empty.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"server error", notFound.URL},
		{"empty body", empty.URL},
		{"unreachable", "http://127.0.0.1:1/resume.pdf"},
		{"malformed url", "://nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FetchBytes(context.Background(), tt.url, time.Second)
			assert.Equal(t, Placeholder(), got)
		})
	}
}

func TestFetchBytesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	start := time.Now()
	got := FetchBytes(context.Background(), srv.URL, 100*time.Millisecond)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NotEmpty(t, got)
	assert.Equal(t, Placeholder(), got)
}

func TestFetchBytesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	got := NewClient(time.Second, "", 10, nil).FetchBytes(context.Background(), srv.URL)

	assert.Len(t, got, 11)
}

func TestPlaceholderIsValidPDF(t *testing.T) {
	data := Placeholder()

	r, err := pdf.NewReader(strings.NewReader(string(data)), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumPage())

	data[0] = 'X'
	assert.Equal(t, byte('%'), Placeholder()[0])
}

type fakeGetter struct {
	bodies []string
	errs   []error
	calls  int
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.bodies[i]))}, nil
}

func TestFetchObjectRetries(t *testing.T) {
	getter := &fakeGetter{
		bodies: []string{"", "pdf bytes"},
		errs:   []error{errors.New("connection reset"), nil},
	}
	store := &ObjectStore{Client: getter, Bucket: "resumes", Attempts: 3, Delay: time.Millisecond}

	got := store.FetchObject(context.Background(), "sessions/1/cv.pdf")

	assert.Equal(t, "pdf bytes", string(got))
	assert.Equal(t, 2, getter.calls)
}

func TestFetchObjectFallsBack(t *testing.T) {
	getter := &fakeGetter{
		bodies: []string{"", "", ""},
		errs:   []error{errors.New("denied"), errors.New("denied"), errors.New("denied")},
	}
	store := &ObjectStore{Client: getter, Bucket: "resumes", Attempts: 3, Delay: time.Millisecond}

	got := store.FetchObject(context.Background(), "missing.pdf")

	assert.Equal(t, Placeholder(), got)
	assert.Equal(t, 3, getter.calls)
}

func TestDownloadLimit(t *testing.T) {
	getter := &fakeGetter{bodies: []string{strings.Repeat("y", 64)}}
	store := &ObjectStore{Client: getter, Bucket: "resumes", MaxBytes: 8}

	got, err := store.Download(context.Background(), "big.pdf")

	require.NoError(t, err)
	assert.Len(t, got, 9)
}
