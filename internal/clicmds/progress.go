package clicmds

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// newSubmitProgressBar mirrors the indexing progress bar style: a
// throttled bar with item counts and a rate suffix, printing a blank line
// on completion.
func newSubmitProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Chunking items"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("items/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

// progressBarCloser wraps a bar whose completion is only known once the
// whole (concurrent) batch finishes, rather than per item.
type progressBarCloser struct {
	bar *progressbar.ProgressBar
}

func newProgressBarCloser(total int) *progressBarCloser {
	return &progressBarCloser{bar: newSubmitProgressBar(total)}
}

func (p *progressBarCloser) finish() {
	p.bar.Finish()
}
