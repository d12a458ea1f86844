package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/mahdiidarabi/partial-key-factor/pkg/coppersmith"
)

// roundSpinner shows the current search round on stderr.
type roundSpinner struct {
	bar *progressbar.ProgressBar
}

func newRoundSpinner(hidden bool) *roundSpinner {
	if hidden {
		return &roundSpinner{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("starting search"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	return &roundSpinner{bar: bar}
}

// ObserveRound implements coppersmith.RoundObserver.
func (s *roundSpinner) ObserveRound(r coppersmith.Round) {
	if s.bar == nil {
		return
	}
	desc := fmt.Sprintf("%s round m=%d", r.Pipeline, r.Param)
	if r.Pipeline == coppersmith.PipelineUnivariate {
		desc += fmt.Sprintf(" t=%d", r.Secondary)
	}
	s.bar.Describe(desc)
	_ = s.bar.Add(1)
}

func (s *roundSpinner) finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
	}
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
