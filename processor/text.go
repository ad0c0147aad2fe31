package processor

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kbukum/typedflow/errors"
)

// TextOption configures the text processors.
type TextOption func(*textOptions)

type textOptions struct {
	tag language.Tag
}

// WithLanguage selects language-specific casing rules, e.g. language.Turkish.
func WithLanguage(tag language.Tag) TextOption {
	return func(o *textOptions) { o.tag = tag }
}

func newTextOptions(opts []TextOption) textOptions {
	o := textOptions{tag: language.Und}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewText returns the "upper" processor: full Unicode upper-casing. It
// succeeds for any well-formed UTF-8 and fails malformed input with
// INVALID_INPUT.
func NewText(opts ...TextOption) Processor[string] {
	o := newTextOptions(opts)
	return caseProcessor("upper", func() cases.Caser { return cases.Upper(o.tag) })
}

// NewLower returns the "lower" processor.
func NewLower(opts ...TextOption) Processor[string] {
	o := newTextOptions(opts)
	return caseProcessor("lower", func() cases.Caser { return cases.Lower(o.tag) })
}

// NewFold returns the "fold" processor: case folding for caseless matching.
func NewFold() Processor[string] {
	return caseProcessor("fold", func() cases.Caser { return cases.Fold() })
}

// NewTrim returns the "trim" processor removing surrounding white space.
func NewTrim() Processor[string] {
	return Func("trim", func(_ context.Context, v string) (string, error) {
		if err := checkUTF8(v); err != nil {
			return v, err
		}
		return strings.TrimSpace(v), nil
	})
}

// caseProcessor builds a processor around a Caser factory. A Caser holds
// state, so each call gets its own.
func caseProcessor(name string, newCaser func() cases.Caser) Processor[string] {
	return Func(name, func(_ context.Context, v string) (string, error) {
		if err := checkUTF8(v); err != nil {
			return v, err
		}
		return newCaser().String(v), nil
	})
}

func checkUTF8(v string) error {
	if !utf8.ValidString(v) {
		return errors.InvalidInput("value", "text is not valid UTF-8")
	}
	return nil
}
