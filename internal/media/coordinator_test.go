package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUploader records call order and can fail on a given filename.
type stubUploader struct {
	mu       sync.Mutex
	calls    []string
	failOn   string
	inFlight int
	maxSeen  int
}

func (s *stubUploader) Upload(ctx context.Context, file io.Reader, kind Kind, name string) (string, error) {
	s.mu.Lock()
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	s.calls = append(s.calls, name)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == s.failOn {
		return "", &UploadError{Filename: name, Err: errors.New("boom")}
	}
	return "https://cdn.example.com/" + string(kind) + "/" + name, nil
}

func sel(name string) Selection {
	return NewSelection(name, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("data")), nil
	})
}

func TestUploadInspirationPreservesSelectionOrder(t *testing.T) {
	stub := &stubUploader{}
	c := NewCoordinator(stub)

	var files []Selection
	for i := 0; i < 10; i++ {
		files = append(files, sel(fmt.Sprintf("insp-%d.jpg", i)))
	}

	urls, err := c.UploadInspiration(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, urls, 10)
	for i, u := range urls {
		assert.Equal(t, fmt.Sprintf("https://cdn.example.com/image/insp-%d.jpg", i), u)
	}
	assert.LessOrEqual(t, stub.maxSeen, inspirationConcurrency)
}

func TestUploadInspirationFailureAbortsBatch(t *testing.T) {
	stub := &stubUploader{failOn: "bad.jpg"}
	c := NewCoordinator(stub)

	files := []Selection{sel("a.jpg"), sel("bad.jpg"), sel("c.jpg")}
	urls, err := c.UploadInspiration(context.Background(), files)

	require.Error(t, err)
	assert.Nil(t, urls)

	var ue *UploadError
	if errors.As(err, &ue) {
		assert.Equal(t, "bad.jpg", ue.Filename)
	}
}

func TestUploadCompletionIsSequential(t *testing.T) {
	stub := &stubUploader{}
	c := NewCoordinator(stub)

	images := []Selection{sel("1.jpg"), sel("2.jpg"), sel("3.jpg")}
	video := sel("done.mp4")

	out, err := c.UploadCompletion(context.Background(), images, &video)
	require.NoError(t, err)

	// Sequential dispatch means never more than one upload in flight, and
	// the video strictly after every image.
	assert.Equal(t, 1, stub.maxSeen)
	assert.Equal(t, []string{"1.jpg", "2.jpg", "3.jpg", "done.mp4"}, stub.calls)
	assert.Equal(t, "https://cdn.example.com/video/done.mp4", out.Video)
	require.Len(t, out.Images, 3)
}

func TestUploadCompletionTruncatesToThree(t *testing.T) {
	stub := &stubUploader{}
	c := NewCoordinator(stub)

	images := []Selection{sel("1.jpg"), sel("2.jpg"), sel("3.jpg"), sel("4.jpg"), sel("5.jpg")}
	out, err := c.UploadCompletion(context.Background(), images, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/image/1.jpg",
		"https://cdn.example.com/image/2.jpg",
		"https://cdn.example.com/image/3.jpg",
	}, out.Images)
	assert.Equal(t, []string{"1.jpg", "2.jpg", "3.jpg"}, stub.calls)
}

func TestUploadCompletionImageFailureSkipsVideo(t *testing.T) {
	stub := &stubUploader{failOn: "2.jpg"}
	c := NewCoordinator(stub)

	images := []Selection{sel("1.jpg"), sel("2.jpg"), sel("3.jpg")}
	video := sel("done.mp4")

	_, err := c.UploadCompletion(context.Background(), images, &video)
	require.Error(t, err)

	// Nothing after the failed image was attempted.
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, stub.calls)
}

func TestPreviewSetKeyedBySelectionIdentity(t *testing.T) {
	set := NewPreviewSet()
	a, b := sel("a.jpg"), sel("b.jpg")
	set.Add(a)
	set.Add(b)

	// b's preview finishes first; order still follows selection.
	require.True(t, set.Complete(b.ID, "data:b"))
	require.True(t, set.Complete(a.ID, "data:a"))

	list := set.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a.jpg", list[0].Name)
	assert.Equal(t, "data:a", list[0].DataURL)
	assert.Equal(t, "b.jpg", list[1].Name)
}

func TestPreviewRemovedBeforeGenerationFinishes(t *testing.T) {
	set := NewPreviewSet()
	a := sel("a.jpg")
	set.Add(a)

	require.True(t, set.Remove(a.ID))
	assert.False(t, set.Complete(a.ID, "data:a"), "late result must be dropped")
	assert.Empty(t, set.List())
	assert.False(t, set.Remove(a.ID), "second removal must not double-count")
}
