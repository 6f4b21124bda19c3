// Command pdfextract copies a page selection of a local PDF into a new file
// using the same engine as the server.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/NithinKS007/PDF-extractor-server/internal/extractor"
	"github.com/NithinKS007/PDF-extractor-server/pkg/logger"
)

func main() {
	in := pflag.StringP("in", "i", "", "source PDF")
	out := pflag.StringP("out", "o", "", "destination PDF")
	pagesFlag := pflag.StringP("pages", "p", "", "1-based pages in output order, e.g. 3,1,1")
	level := pflag.String("log-level", "info", "debug|info|warn|error")
	pflag.Parse()

	logger.Init(*level)
	if *in == "" || *out == "" || *pagesFlag == "" {
		pflag.Usage()
		os.Exit(2)
	}
	if err := run(*in, *out, *pagesFlag); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(in, out, pagesFlag string) error {
	pages, err := parsePages(pagesFlag)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	eng := extractor.New()
	n, err := eng.PageCount(src)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	logger.Debugf("%s has %d pages", in, n)

	dst, err := eng.Extract(src, pages)
	if err != nil {
		return fmt.Errorf("extract from %s: %w", in, err)
	}
	if err := os.WriteFile(out, dst, 0o644); err != nil {
		return err
	}
	logger.Infow("pdf extracted", logger.Fields{"in": in, "out": out, "pages": len(pages), "bytes": len(dst)})
	return nil
}

func parsePages(s string) ([]int, error) {
	var pages []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid page %q", f)
		}
		pages = append(pages, n)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages given")
	}
	return pages, nil
}
