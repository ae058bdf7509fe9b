package parser

import (
	"time"

	"github.com/kshetline/fortissimo-html-sub000/dom"
	"github.com/kshetline/fortissimo-html-sub000/internal/xerr"
)

// Results is what the completion event and a finished Parse call both
// carry.
type Results struct {
	DomRoot              *dom.Element
	Characters           int
	Errors               xerr.Errors
	ImplicitlyClosedTags int
	Lines                int
	Stopped              bool
	UnclosedTags         []string
	TotalTime            time.Duration
}
