package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"newsnotes/ingest"
	"newsnotes/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	body        []byte
	contentType string
}

type fakeObjects struct {
	objects map[string]object
	failPut error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string]object{}}
}

func (f *fakeObjects) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	if f.failPut != nil {
		return f.failPut
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = object{body: b, contentType: contentType}
	return nil
}

func (f *fakeObjects) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	o, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(o.body)), nil
}

func TestArchiveRun(t *testing.T) {
	objects := newFakeObjects()
	a := New(objects, "news", "/runs/")

	report := &ingest.Report{RunID: "r1", SourceURL: "https://example.com", Succeeded: true, Created: 3}
	doc := &scraper.Document{URL: "https://example.com", Body: []byte("<html></html>"), ContentType: "text/html; charset=utf-8"}

	require.NoError(t, a.ArchiveRun(context.Background(), report, doc))

	snap, ok := objects.objects["news/runs/snapshots/r1.html"]
	require.True(t, ok)
	assert.Equal(t, "<html></html>", string(snap.body))
	assert.Equal(t, "text/html; charset=utf-8", snap.contentType)

	rep, ok := objects.objects["news/runs/reports/r1.json"]
	require.True(t, ok)
	assert.Equal(t, "application/json", rep.contentType)

	loaded, err := a.LoadReport(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Created)
	assert.True(t, loaded.Succeeded)
}

func TestLoadReport_Missing(t *testing.T) {
	a := New(newFakeObjects(), "news", "")
	_, err := a.LoadReport(context.Background(), "never-ran")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveRun_ReportOnlyWithoutDocument(t *testing.T) {
	objects := newFakeObjects()
	a := New(objects, "news", "")

	require.NoError(t, a.ArchiveRun(context.Background(), &ingest.Report{RunID: "r2"}, nil))
	assert.Len(t, objects.objects, 1)
	assert.Contains(t, objects.objects, "news/reports/r2.json")
}

func TestArchiveRun_PutFailure(t *testing.T) {
	objects := newFakeObjects()
	objects.failPut = errors.New("access denied")
	a := New(objects, "news", "")

	err := a.ArchiveRun(context.Background(), &ingest.Report{RunID: "r3"}, &scraper.Document{Body: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploading snapshot")
}

func TestKeys(t *testing.T) {
	a := New(nil, "b", "nested/prefix")
	assert.Equal(t, "nested/prefix/snapshots/id.html", a.SnapshotKey("id"))
	assert.Equal(t, "nested/prefix/reports/id.json", a.ReportKey("id"))
}
