package bench

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressBar is a really simple progress bar for the benchmark steps.
type progressBar struct {
	pb *progressbar.ProgressBar
}

func newBar(out io.Writer, description string, maxItems int) *progressBar {
	pb := progressbar.NewOptions(
		maxItems,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = pb.Set(0)

	return &progressBar{pb: pb}
}

func (p *progressBar) Inc() {
	_ = p.pb.Add(1)
}

func (p *progressBar) Finish() {
	_ = p.pb.Finish()
	_ = p.pb.Close()
}
