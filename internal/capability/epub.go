package capability

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// epubReader concatenates the text of the book's XHTML documents in reading
// order.
type epubReader struct{}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	Spine []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

func (epubReader) Extract(ctx context.Context, p string) (string, error) {
	zr, err := zip.OpenReader(p)
	if err != nil {
		return "", fmt.Errorf("open epub: %w", err)
	}
	defer zr.Close()

	data, err := readMember(&zr.Reader, "META-INF/container.xml")
	if err != nil {
		return "", err
	}
	var container epubContainer
	if err := xml.Unmarshal(data, &container); err != nil {
		return "", fmt.Errorf("parse container.xml: %w", err)
	}
	if len(container.Rootfiles) == 0 {
		return "", fmt.Errorf("container.xml has no rootfile")
	}

	opfPath := container.Rootfiles[0].FullPath
	data, err = readMember(&zr.Reader, opfPath)
	if err != nil {
		return "", err
	}
	var pkg epubPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("parse %s: %w", opfPath, err)
	}

	var texts []string
	for _, href := range documentOrder(pkg) {
		name := href
		if unescaped, err := url.PathUnescape(href); err == nil {
			name = unescaped
		}
		doc, err := readMember(&zr.Reader, path.Join(path.Dir(opfPath), name))
		if err != nil {
			return "", err
		}
		text, err := htmlText(doc)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", href, err)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n"), nil
}

// documentOrder returns the hrefs of the XHTML documents, following the
// spine when there is one and the manifest otherwise.
func documentOrder(pkg epubPackage) []string {
	isDoc := func(mediaType string) bool {
		return mediaType == "application/xhtml+xml" || mediaType == "text/html"
	}

	byID := make(map[string]string)
	var manifest []string
	for _, item := range pkg.Manifest {
		if !isDoc(item.MediaType) {
			continue
		}
		byID[item.ID] = item.Href
		manifest = append(manifest, item.Href)
	}

	if len(pkg.Spine) == 0 {
		return manifest
	}
	var hrefs []string
	for _, ref := range pkg.Spine {
		if href, ok := byID[ref.IDRef]; ok {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs
}

// htmlText returns all text nodes of an HTML document outside script and
// style elements, concatenated as they appear.
func htmlText(doc []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String(), nil
}
