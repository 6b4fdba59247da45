package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/mattn/go-runewidth"
)

// activity animates a label on a terminal line while a command works.
// It stops on its own when ctx ends.
type activity struct {
	w     io.Writer
	label string
	anim  spinner.Spinner

	mu      sync.Mutex
	drawn   bool
	once    sync.Once
	quit    chan struct{}
	stopped chan struct{}
}

// startActivity starts animating label on w.
func startActivity(ctx context.Context, w io.Writer, label string) *activity {
	a := &activity{
		w:       w,
		label:   label,
		anim:    spinner.MiniDot,
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go a.run(ctx)
	return a
}

func (a *activity) run(ctx context.Context) {
	defer close(a.stopped)
	tick := time.NewTicker(a.anim.FPS)
	defer tick.Stop()

	for i := 0; ; i++ {
		a.draw(a.anim.Frames[i%len(a.anim.Frames)])
		select {
		case <-ctx.Done():
			return
		case <-a.quit:
			return
		case <-tick.C:
		}
	}
}

func (a *activity) draw(frame string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(a.label))
	a.drawn = true
}

// stop ends the animation and erases the line. Safe to call more than once.
func (a *activity) stop() {
	a.once.Do(func() { close(a.quit) })
	<-a.stopped

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.drawn {
		width := runewidth.StringWidth(a.label) + 2
		fmt.Fprintf(a.w, "\r%s\r", strings.Repeat(" ", width))
		a.drawn = false
	}
}

// fail stops the animation and prints msg as an error.
func (a *activity) fail(msg string) {
	a.stop()
	printError("%s", msg)
}
