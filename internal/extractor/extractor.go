// Package extractor copies a selection of pages out of a PDF into a new
// document. It performs no I/O; callers pass and receive raw bytes.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrMalformedDocument   = errors.New("extractor: malformed pdf document")
	ErrPageIndexOutOfRange = errors.New("extractor: page index out of range")
	ErrNoPages             = errors.New("extractor: no pages selected")
)

// PageRangeError names the offending 1-based index and the page count.
type PageRangeError struct {
	Index int
	Count int
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("extractor: page %d out of range [1, %d]", e.Index, e.Count)
}

func (e *PageRangeError) Unwrap() error { return ErrPageIndexOutOfRange }

func init() {
	api.DisableConfigDir()
}

// Engine is stateless and safe for concurrent use.
type Engine struct{}

func New() *Engine { return &Engine{} }

func newConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// PageCount parses src and returns its number of pages.
func (e *Engine) PageCount(src []byte) (n int, err error) {
	if len(src) == 0 {
		return 0, ErrMalformedDocument
	}
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%w: %v", ErrMalformedDocument, r)
		}
	}()
	n, err = api.PageCount(bytes.NewReader(src), newConfig())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return n, nil
}

// Extract returns a new PDF whose i-th page is a copy of src page pages[i].
// Pages are 1-based; order and repeats are kept. Every index is checked
// before any output is produced.
func (e *Engine) Extract(src []byte, pages []int) (out []byte, err error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	n, err := e.PageCount(src)
	if err != nil {
		return nil, err
	}
	sel := make([]string, len(pages))
	for i, p := range pages {
		if p < 1 || p > n {
			return nil, &PageRangeError{Index: p, Count: n}
		}
		sel[i] = strconv.Itoa(p)
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrMalformedDocument, r)
		}
	}()
	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(src), &buf, sel, newConfig()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return buf.Bytes(), nil
}
