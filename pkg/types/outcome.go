package types

import "fmt"

// OutcomeKind tags a ConversionOutcome.
type OutcomeKind int

const (
	// PagesAppended means the file was rendered natively.
	PagesAppended OutcomeKind = iota + 1
	// FallbackInfoPage means the format is unsupported or could not be
	// extracted and a single informational page stands in for it.
	FallbackInfoPage
	// ErrorPage means conversion failed and a single error page was drawn.
	ErrorPage
)

func (k OutcomeKind) String() string {
	switch k {
	case PagesAppended:
		return "pages"
	case FallbackInfoPage:
		return "info"
	case ErrorPage:
		return "error"
	default:
		return "unknown"
	}
}

// ConversionOutcome is the result of converting one file. Every outcome
// appends at least one page to the output document.
type ConversionOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Pages  int         `json:"pages"`
	Reason string      `json:"reason,omitempty"`
}

// Appended reports count pages rendered natively.
func Appended(count int) ConversionOutcome {
	return ConversionOutcome{Kind: PagesAppended, Pages: count}
}

// InfoPage reports a fallback information page.
func InfoPage(reason string) ConversionOutcome {
	return ConversionOutcome{Kind: FallbackInfoPage, Pages: 1, Reason: reason}
}

// ErrorPageOutcome reports an error page.
func ErrorPageOutcome(reason string) ConversionOutcome {
	return ConversionOutcome{Kind: ErrorPage, Pages: 1, Reason: reason}
}

func (o ConversionOutcome) String() string {
	if o.Reason != "" {
		return fmt.Sprintf("%s(%d): %s", o.Kind, o.Pages, o.Reason)
	}
	return fmt.Sprintf("%s(%d)", o.Kind, o.Pages)
}

// FileOutcome pairs a file with its conversion outcome.
type FileOutcome struct {
	File    *CandidateFile    `json:"file"`
	Outcome ConversionOutcome `json:"outcome"`
}
