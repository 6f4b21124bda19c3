package extractortest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PageInfo is what Inspect reads back from a page.
type PageInfo struct {
	Width   float64
	Content string
}

// Inspect parses doc with an independent reader and returns each page's
// MediaBox width and decoded content stream.
func Inspect(doc []byte) ([]PageInfo, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, err
	}
	out := make([]PageInfo, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			return nil, fmt.Errorf("page %d missing", i)
		}
		box := inherited(p.V, "MediaBox")
		content, err := readContents(p.V.Key("Contents"))
		if err != nil {
			return nil, fmt.Errorf("page %d contents: %w", i, err)
		}
		out = append(out, PageInfo{Width: box.Index(2).Float64() - box.Index(0).Float64(), Content: content})
	}
	return out, nil
}

func inherited(v pdf.Value, key string) pdf.Value {
	for n := v; !n.IsNull(); n = n.Key("Parent") {
		if k := n.Key(key); !k.IsNull() {
			return k
		}
	}
	return pdf.Value{}
}

func readContents(v pdf.Value) (string, error) {
	if v.Kind() == pdf.Array {
		var sb bytes.Buffer
		for i := 0; i < v.Len(); i++ {
			s, err := readContents(v.Index(i))
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	}
	rc := v.Reader()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	return string(b), err
}
