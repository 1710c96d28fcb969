package skinblock

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/seutix/SkinBlockConverter/match"
)

func recognizedImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func (c *Converter) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !recognizedImage(file) {
				return nil
			}

			// Don't re-convert our own output
			if strings.HasSuffix(file, "_pixelart.png") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func imageSize(file string) (image.Point, error) {
	f, err := os.Open(file)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, err
	}

	return image.Point{X: cfg.Width, Y: cfg.Height}, nil
}

// imageWorker converts every file it receives. Each worker owns its own
// matcher so the color caches are never shared across goroutines; the
// palette itself is read-only and safe to share.
func (c *Converter) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)

		matcher := match.New(c.palette, nil)

		for file := range in {
			size, err := imageSize(file)
			if err != nil {
				c.logger.Printf("skipping %q: %v", file, err)
				continue
			}

			// 64x32 is both a legacy skin and a cape sheet; batch mode
			// treats it as a skin, so only the cape-only crop converts as
			// a cape.
			switch {
			case contains(SkinSizes, size):
				err = c.renderer(SkinSizes).Convert(file, OutputPath(file), matcher.Match)
			case size == (image.Point{X: 22, Y: 17}):
				err = c.renderer(CapeSizes).Convert(file, OutputPath(file), matcher.Match)
			default:
				c.logger.Printf("skipping %q: %dx%d is not a skin or cape", file, size.X, size.Y)
				continue
			}

			if err != nil {
				errc <- err
				return
			}

			c.logger.Printf("converted %q", file)
		}
	}()
	return errc, nil
}

func contains(sizes []image.Point, p image.Point) bool {
	for _, s := range sizes {
		if s == p {
			return true
		}
	}
	return false
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch walks path and converts every recognized skin or cape image found,
// writing each result next to its source with a _pixelart suffix. A
// per-file decode failure skips that file; conversion errors abort the
// batch.
func (c *Converter) Batch(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	workers := c.opts.Workers
	if workers <= 0 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		errc, err := c.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
