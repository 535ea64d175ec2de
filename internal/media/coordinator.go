package media

import (
	"context"
	"io"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxCompletionImages caps completion evidence; extra files selected by
	// the user are silently dropped, keeping the first three in selection
	// order.
	MaxCompletionImages = 3

	// inspirationConcurrency bounds the parallel inspiration dispatch so a
	// big selection cannot flood the upload endpoint.
	inspirationConcurrency = 4
)

// Selection is one locally chosen file. ID is assigned at selection time and
// is the stable identity previews are keyed by; it never depends on the
// order uploads or preview generation happen to finish in.
type Selection struct {
	ID   string
	Name string
	Open func() (io.ReadCloser, error)
}

// NewSelection wraps a file handle with a fresh selection identity.
func NewSelection(name string, open func() (io.ReadCloser, error)) Selection {
	return Selection{ID: uuid.NewString(), Name: name, Open: open}
}

// Coordinator runs the two upload pipelines against one Uploader.
type Coordinator struct {
	uploader Uploader
}

func NewCoordinator(u Uploader) *Coordinator {
	return &Coordinator{uploader: u}
}

func (c *Coordinator) uploadOne(ctx context.Context, sel Selection, kind Kind) (string, error) {
	f, err := sel.Open()
	if err != nil {
		return "", &UploadError{Filename: sel.Name, Err: err}
	}
	defer f.Close()
	return c.uploader.Upload(ctx, f, kind, sel.Name)
}

// UploadInspiration uploads design-inspiration images with bounded concurrent
// dispatch. Completion order is whatever the network gives us, but the
// returned URLs are re-assembled in selection order. The first failure
// cancels the group and fails the whole batch.
func (c *Coordinator) UploadInspiration(ctx context.Context, files []Selection) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(inspirationConcurrency)

	for i, sel := range files {
		i, sel := i, sel
		g.Go(func() error {
			url, err := c.uploadOne(ctx, sel, KindImage)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// TruncateCompletionImages applies the selection-time cap.
func TruncateCompletionImages(files []Selection) []Selection {
	if len(files) > MaxCompletionImages {
		return files[:MaxCompletionImages]
	}
	return files
}

// UploadCompletion uploads completion evidence strictly sequentially: each
// image is awaited before the next starts, and the video only goes up after
// every image succeeded. At any intermediate point the server therefore holds
// no more media than we have acknowledged. A failure aborts the rest of the
// batch and the caller must not send the booking mutation.
func (c *Coordinator) UploadCompletion(ctx context.Context, images []Selection, video *Selection) (booking.CompletionEvidence, error) {
	images = TruncateCompletionImages(images)

	var out booking.CompletionEvidence
	for _, sel := range images {
		url, err := c.uploadOne(ctx, sel, KindImage)
		if err != nil {
			return booking.CompletionEvidence{}, err
		}
		out.Images = append(out.Images, url)
	}

	if video != nil {
		url, err := c.uploadOne(ctx, *video, KindVideo)
		if err != nil {
			return booking.CompletionEvidence{}, err
		}
		out.Video = url
	}
	return out, nil
}
