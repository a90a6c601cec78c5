package assets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Kind identifies what a request loads.
type Kind int

const (
	KindEnvironment Kind = iota
	KindCharacter
	KindExternalClip
	KindSoundtrack
)

func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindCharacter:
		return "character"
	case KindExternalClip:
		return "clip"
	case KindSoundtrack:
		return "soundtrack"
	default:
		return "unknown"
	}
}

// Request asks the loader for one asset. Texture is only used by
// KindCharacter and may be empty.
type Request struct {
	Kind    Kind
	Path    string
	Texture string
}

// Completion is the outcome of one request. Value holds
// *scene.Environment, *Character, *animation.Clip or []byte by Kind, and is
// nil when Err is set.
type Completion struct {
	Kind  Kind
	Path  string
	Value any
	Err   error
}

// Loader runs requests concurrently and posts their completions to a
// channel that the render thread drains. Completion order is unspecified.
type Loader struct {
	src   *Source
	log   *zap.Logger
	group errgroup.Group
	out   chan Completion

	mu     sync.Mutex
	ctx    context.Context
	closed bool

	// ModelScale is applied to the character's root node.
	ModelScale float32
}

// NewLoader creates a loader reading from src.
func NewLoader(src *Source, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		src:        src,
		log:        log,
		out:        make(chan Completion, 16),
		ctx:        context.Background(),
		ModelScale: 1,
	}
}

// Start launches one goroutine per request. ctx only interrupts delivery
// of completions during shutdown; loads themselves are not cancelled.
func (l *Loader) Start(ctx context.Context, reqs ...Request) {
	l.mu.Lock()
	l.ctx = ctx
	l.mu.Unlock()
	for _, r := range reqs {
		l.Submit(r)
	}
}

// Submit launches one more request. It is a no-op after Wait.
func (l *Loader) Submit(r Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	ctx := l.ctx
	l.group.Go(func() error {
		c := l.run(r)
		select {
		case l.out <- c:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// Completions returns the channel completions are posted to. It is closed
// by Wait.
func (l *Loader) Completions() <-chan Completion { return l.out }

// Drain hands every completion already posted to fn without blocking and
// returns how many it handled.
func (l *Loader) Drain(fn func(Completion)) int {
	n := 0
	for {
		select {
		case c, ok := <-l.out:
			if !ok {
				return n
			}
			fn(c)
			n++
		default:
			return n
		}
	}
}

// Wait joins every task and closes the completion channel.
func (l *Loader) Wait() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	err := l.group.Wait()
	close(l.out)
	return err
}

func (l *Loader) run(r Request) (c Completion) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			l.log.Error("asset decoder panicked",
				zap.Stringer("kind", r.Kind),
				zap.String("path", r.Path),
				zap.Any("panic", p))
			c = Completion{Kind: r.Kind, Path: r.Path, Err: &LoadError{
				Kind: r.Kind,
				Path: r.Path,
				Err:  fmt.Errorf("%w: %v", ErrMalformed, p),
			}}
		}
	}()
	v, err := l.load(r)
	c = Completion{Kind: r.Kind, Path: r.Path, Value: v}
	if err != nil {
		c.Value = nil
		c.Err = &LoadError{Kind: r.Kind, Path: r.Path, Err: err}
		return c
	}
	l.log.Debug("asset loaded",
		zap.Stringer("kind", r.Kind),
		zap.String("path", r.Path),
		zap.Duration("took", time.Since(start)))
	return c
}

func (l *Loader) load(r Request) (any, error) {
	switch r.Kind {
	case KindEnvironment:
		return l.LoadEnvironment(r.Path)
	case KindCharacter:
		return l.LoadCharacterWithTexture(r.Path, r.Texture)
	case KindExternalClip:
		return l.LoadExternalClip(r.Path)
	case KindSoundtrack:
		return l.LoadSoundtrack(r.Path)
	default:
		return nil, ErrUnsupported
	}
}

// LoadSoundtrack returns the raw bytes of a WAV file.
func (l *Loader) LoadSoundtrack(name string) ([]byte, error) {
	return l.src.Load(name)
}

// Reload drops name from the cache and submits r again.
func (l *Loader) Reload(r Request) {
	l.src.Invalidate(r.Path)
	l.Submit(r)
}
