// Package progressbar implements printing a progress bar to the
// terminal window.
package progressbar

import (
	"fmt"
	"strings"
	"time"
)

// ProgressBar implements a concurrent progress bar. Display runs the
// rendering in its own goroutine, which also owns the progress counter;
// Increment hands it increments over a channel, so no state is shared
// between the caller and the renderer.
type ProgressBar struct {
	// width is the number of characters wide the bar is drawn
	width float64

	// maxProgress is the number of Increment calls at which the bar
	// reaches 100%
	maxProgress float64

	incrementEvent chan struct{}
	closeEvent     chan struct{}
	closed         bool

	updateEvery       time.Duration
	updateAtIncrement bool
}

// New returns a new progress bar that is width characters wide and
// reaches 100% after max Increment calls. The bar redraws every
// updateEvery, and additionally at every Increment call when
// updateAtIncrement is set.
func New(width, max int, updateEvery time.Duration,
	updateAtIncrement bool) *ProgressBar {
	return &ProgressBar{
		width:             float64(width),
		maxProgress:       float64(max),
		incrementEvent:    make(chan struct{}),
		closeEvent:        make(chan struct{}),
		updateEvery:       updateEvery,
		updateAtIncrement: updateAtIncrement,
	}
}

// Increment increments the progress counter. It should be called once
// per completed iteration, after Display has started the bar. Calling
// Increment on a closed progress bar is a no-op.
func (pbar *ProgressBar) Increment() {
	select {
	case pbar.incrementEvent <- struct{}{}:
	case <-pbar.closeEvent:
	}
}

// Close stops the progress bar from displaying and releases its
// resources. Close should only be called once.
func (pbar *ProgressBar) Close() {
	if pbar.closed {
		panic("close: close on closed progress bar")
	}
	pbar.closed = true
	close(pbar.closeEvent)
	fmt.Println() // Jump to the next line after the printed bar
}

// Display starts drawing the progress bar on the screen. It should
// only be called once.
func (pbar *ProgressBar) Display() {
	go func() {
		var currentProgress float64
		maxProgress := pbar.maxProgress
		width := pbar.width

		tick := time.NewTicker(pbar.updateEvery)
		var elapsedTime time.Duration

		var bar strings.Builder
		for {
			select {
			case <-pbar.incrementEvent:
				if currentProgress < maxProgress {
					currentProgress++
				}
				if !pbar.updateAtIncrement {
					continue
				}

			case <-tick.C:
				elapsedTime += pbar.updateEvery

			case <-pbar.closeEvent:
				tick.Stop()
				return
			}

			bar.Reset()
			bar.WriteString("|")

			currentProg := currentProgress / maxProgress * width
			for i := 0.0; i < currentProg; i++ {
				bar.WriteString("█")
			}
			for i := currentProg; i < width; i++ {
				bar.WriteString(" ")
			}
			bar.WriteString(fmt.Sprintf("| [%.2f%% | elapsed: %v]",
				currentProgress/maxProgress*100, elapsedTime))

			fmt.Printf("\n\033[1A\033[K%v", bar.String())
		}
	}()
}
