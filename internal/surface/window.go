//go:build !noebiten

package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Window is a Surface backed by an Ebitengine desktop window.
//
// Run must be called on the main goroutine and blocks until the window
// closes. Present is called from another goroutine; each call blocks until
// the game loop has uploaded the frame.
type Window struct {
	opts Options

	// presentMu serializes Present so pix is never shared between frames.
	presentMu sync.Mutex
	pix       []byte

	frames   chan []byte
	uploaded chan struct{}
	done     chan struct{}

	mu        sync.Mutex
	img       *ebiten.Image
	running   bool
	closed    bool
	closeOnce sync.Once
	quit      bool
	aboveOnce sync.Once
}

// NewWindow validates opts and prepares a window. Nothing is shown until Run.
func NewWindow(opts Options) (*Window, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Window{
		opts:     opts,
		pix:      make([]byte, 4*opts.Width*opts.Height),
		frames:   make(chan []byte),
		uploaded: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// Options returns the window options after defaults were applied.
func (w *Window) Options() Options { return w.opts }

// Run opens the window and runs the Ebitengine loop until the user closes
// the window, presses Escape, or Close is called.
func (w *Window) Run() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.running = true
	w.mu.Unlock()

	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowSize(w.opts.Width*w.opts.Scale, w.opts.Height*w.opts.Scale)
	if w.opts.Positioned {
		ebiten.SetWindowPosition(w.opts.X, w.opts.Y)
	}
	ebiten.SetTPS(w.opts.TPS)

	err := ebiten.RunGame(&windowGame{w: w})
	w.markClosed()

	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window loop failed: %w", err)
	}
	return nil
}

// IsOpen implements Surface.
func (w *Window) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

// Present implements Surface.
func (w *Window) Present(buf []uint32, width, height int) error {
	if err := checkFrame(buf, width, height, w.opts.Width, w.opts.Height); err != nil {
		return err
	}

	w.presentMu.Lock()
	defer w.presentMu.Unlock()

	if !w.IsOpen() {
		return &PresentError{Op: "present", Err: ErrClosed}
	}
	PackRGBA(w.pix, buf)

	select {
	case w.frames <- w.pix:
	case <-w.done:
		return &PresentError{Op: "present", Err: ErrClosed}
	}
	select {
	case <-w.uploaded:
		return nil
	case <-w.done:
		return &PresentError{Op: "upload", Err: ErrClosed}
	}
}

// Close asks the game loop to stop. If Run was never called the window is
// closed immediately.
func (w *Window) Close() error {
	w.mu.Lock()
	running := w.running
	w.quit = true
	w.mu.Unlock()

	if !running {
		w.markClosed()
	}
	return nil
}

func (w *Window) markClosed() {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.running = false
		w.mu.Unlock()
		close(w.done)
	})
}

func (w *Window) quitRequested() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quit
}

// windowGame adapts Window to ebiten.Game.
type windowGame struct {
	w *Window
}

func (g *windowGame) Update() error {
	if g.w.quitRequested() || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	w := g.w
	if w.img == nil {
		w.img = ebiten.NewImage(w.opts.Width, w.opts.Height)
	}

	select {
	case pix := <-w.frames:
		w.img.WritePixels(pix)
		w.uploaded <- struct{}{}
	default:
	}

	if w.opts.OnTop {
		w.aboveOnce.Do(func() { go w.pinAbove() })
	}

	screen.DrawImage(w.img, nil)
}

// pinAbove asks the window manager to keep the window on top. Failure
// leaves the window unpinned and is reported to OnError.
func (w *Window) pinAbove() {
	if err := keepAbove(); err != nil {
		w.opts.OnError(fmt.Errorf("keep window above: %w", err))
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w.opts.Width, g.w.opts.Height
}
