package assets

import (
	"context"
	"io/fs"
	"log"
	"sync"
)

// Loader loads models off the caller's goroutine. The done callback runs on
// the worker goroutine, so callers hand the result back through a mailbox.
type Loader struct {
	Options []Option

	wg sync.WaitGroup
}

func NewLoader(opts ...Option) *Loader {
	return &Loader{Options: opts}
}

// Load reads source, an embedded asset name or a path on disk, and reports
// the result through done. Failures are logged and passed on; there is no
// retry.
func (l *Loader) Load(ctx context.Context, source string, done func(*Model, error)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		model, err := l.load(ctx, source)
		if err != nil {
			log.Printf("assets: load %s: %v", source, err)
		}
		if done != nil {
			done(model, err)
		}
	}()
}

// Wait blocks until every pending load has called back.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) load(ctx context.Context, source string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		model *Model
		err   error
	)
	if _, statErr := fs.Stat(assetsFS, cleanAssetPath(source)); statErr == nil {
		model, err = LoadEmbedded(source, l.Options...)
	} else {
		model, err = LoadGLTF(source, l.Options...)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return model, nil
}
