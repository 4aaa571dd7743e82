package capability

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/wml/ctypes"
)

// docxReader returns the body paragraphs of a Word document, one per line.
// Table cells contribute their paragraphs row by row.
type docxReader struct{}

func (docxReader) Extract(ctx context.Context, path string) (string, error) {
	doc, err := godocx.OpenDocument(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	if doc.Document == nil || doc.Document.Body == nil {
		return "", nil
	}

	var lines []string
	for _, child := range doc.Document.Body.Children {
		switch {
		case child.Para != nil:
			lines = append(lines, paragraphText(child.Para.GetCT().Children))
		case child.Table != nil:
			lines = appendTable(lines, child.Table.GetCT())
		}
	}
	return strings.Join(lines, "\n"), nil
}

func appendTable(lines []string, tbl *ctypes.Table) []string {
	for _, rc := range tbl.RowContents {
		if rc.Row == nil {
			continue
		}
		for _, cc := range rc.Row.Contents {
			if cc.Cell == nil {
				continue
			}
			for _, block := range cc.Cell.Contents {
				switch {
				case block.Paragraph != nil:
					lines = append(lines, paragraphText(block.Paragraph.Children))
				case block.Table != nil:
					lines = appendTable(lines, block.Table)
				}
			}
		}
	}
	return lines
}

func paragraphText(children []ctypes.ParagraphChild) string {
	var b strings.Builder
	var walk func([]ctypes.ParagraphChild)
	walk = func(children []ctypes.ParagraphChild) {
		for _, c := range children {
			if c.Run != nil {
				writeRun(&b, c.Run)
			}
			if c.Link != nil {
				if c.Link.Run != nil {
					writeRun(&b, c.Link.Run)
				}
				walk(c.Link.Children)
			}
		}
	}
	walk(children)
	return b.String()
}

func writeRun(b *strings.Builder, run *ctypes.Run) {
	for _, rc := range run.Children {
		switch {
		case rc.Text != nil:
			b.WriteString(rc.Text.Text)
		case rc.Tab != nil:
			b.WriteString("\t")
		case rc.Break != nil:
			b.WriteString("\n")
		}
	}
}

// pptxReader returns the text paragraphs of every slide, slides in order.
type pptxReader struct{}

func (pptxReader) Extract(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}
	defer zr.Close()

	var lines []string
	for _, name := range numberedParts(&zr.Reader, "ppt/slides/slide") {
		data, err := readMember(&zr.Reader, name)
		if err != nil {
			return "", err
		}
		paras, err := paragraphs(data)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", name, err)
		}
		lines = append(lines, paras...)
	}
	return strings.Join(lines, "\n"), nil
}

// xlsxReader renders the first worksheet as CSV.
type xlsxReader struct{}

type sharedStrings struct {
	Items []struct {
		Text string `xml:"t"`
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

type worksheet struct {
	Rows []struct {
		Cells []struct {
			Ref    string `xml:"r,attr"`
			Type   string `xml:"t,attr"`
			Value  string `xml:"v"`
			Inline struct {
				Text string `xml:"t"`
			} `xml:"is"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

func (xlsxReader) Extract(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	var shared []string
	if data, err := readMember(&zr.Reader, "xl/sharedStrings.xml"); err == nil {
		var sst sharedStrings
		if err := xml.Unmarshal(data, &sst); err != nil {
			return "", fmt.Errorf("parse sharedStrings.xml: %w", err)
		}
		for _, si := range sst.Items {
			var b strings.Builder
			b.WriteString(si.Text)
			for _, r := range si.Runs {
				b.WriteString(r.Text)
			}
			shared = append(shared, b.String())
		}
	}

	sheets := numberedParts(&zr.Reader, "xl/worksheets/sheet")
	if len(sheets) == 0 {
		return "", errors.New("workbook has no worksheets")
	}
	data, err := readMember(&zr.Reader, sheets[0])
	if err != nil {
		return "", err
	}
	var ws worksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return "", fmt.Errorf("parse %s: %w", sheets[0], err)
	}

	var out strings.Builder
	w := csv.NewWriter(&out)
	for _, row := range ws.Rows {
		var record []string
		for _, c := range row.Cells {
			col := columnIndex(c.Ref, len(record))
			for len(record) < col {
				record = append(record, "")
			}
			value := c.Value
			switch c.Type {
			case "s":
				idx, err := strconv.Atoi(c.Value)
				if err != nil || idx < 0 || idx >= len(shared) {
					return "", fmt.Errorf("cell %s: bad shared string index %q", c.Ref, c.Value)
				}
				value = shared[idx]
			case "inlineStr":
				value = c.Inline.Text
			}
			record = append(record, value)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return out.String(), nil
}

// columnIndex converts the letters of a cell reference ("C7") into a
// zero-based column. Cells without a reference take their position.
func columnIndex(ref string, fallback int) int {
	col := 0
	n := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A'+1)
		n++
	}
	if n == 0 {
		return fallback
	}
	return col - 1
}

// paragraphs collects the text runs of an OOXML part, one string per <p>
// element. WordprocessingML and DrawingML share the local names.
func paragraphs(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		paras  []string
		cur    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteString("\t")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paras = append(paras, cur.String())
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return paras, nil
}

// numberedParts lists members named prefix<N>.xml ordered by N.
func numberedParts(zr *zip.Reader, prefix string) []string {
	type part struct {
		name string
		n    int
	}
	var parts []part
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, prefix) || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(f.Name, prefix), ".xml"))
		if err != nil {
			continue
		}
		parts = append(parts, part{name: f.Name, n: n})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].n < parts[j].n })

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.name)
	}
	return names
}

func readMember(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("missing part %s", name)
}
