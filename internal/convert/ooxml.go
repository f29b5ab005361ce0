package convert

// DOCX and PPTX are zip containers of WordprocessingML / PresentationML
// parts. Text lives in <w:t> / <a:t> runs grouped into <w:p> / <a:p>
// paragraphs; we stream the XML tokens and flush one markdown paragraph per
// source paragraph. Styling beyond paragraph breaks is not preserved.

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/file2md/backend/internal/models"
)

// convertDOCX is the formatFn for .docx files.
func convertDOCX(_ context.Context, path string) (Output, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Output{}, fmt.Errorf("opening docx container: %w", err)
	}
	defer zr.Close()

	doc := findZipMember(&zr.Reader, "word/document.xml")
	if doc == nil {
		return Output{}, fmt.Errorf("docx has no word/document.xml")
	}

	paragraphs, err := extractParagraphs(doc)
	if err != nil {
		return Output{}, fmt.Errorf("reading document body: %w", err)
	}

	return Output{
		Markdown: strings.Join(paragraphs, "\n\n"),
		Metadata: coreProperties(&zr.Reader),
	}, nil
}

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// convertPPTX is the formatFn for .pptx files. Slides come out in deck
// order, each under a "## Slide N" heading.
func convertPPTX(_ context.Context, path string) (Output, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Output{}, fmt.Errorf("opening pptx container: %w", err)
	}
	defer zr.Close()

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		if m := slideNameRe.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{num: n, file: f})
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var sections []string
	for _, s := range slides {
		paragraphs, err := extractParagraphs(s.file)
		if err != nil {
			return Output{}, fmt.Errorf("reading slide %d: %w", s.num, err)
		}
		body := strings.Join(paragraphs, "\n\n")
		if body == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("## Slide %d\n\n%s", s.num, body))
	}

	return Output{
		Markdown: strings.Join(sections, "\n\n"),
		Metadata: coreProperties(&zr.Reader),
	}, nil
}

func findZipMember(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// extractParagraphs streams an OOXML part and returns one string per
// non-empty paragraph. Matching is on local names so it works for both the
// w: (word) and a: (drawing) namespaces.
func extractParagraphs(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		depthP     int
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			paragraphs = append(paragraphs, s)
		}
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depthP++
			case "t":
				inText = true
			case "br", "tab":
				current.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if depthP > 0 {
					depthP--
				}
				if depthP == 0 {
					flush()
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	flush()

	return paragraphs, nil
}

// coreProperties reads docProps/core.xml for title and creator. Absence of
// the part (or any parse trouble) is not an error; metadata is optional.
func coreProperties(zr *zip.Reader) models.DocumentMetadata {
	f := findZipMember(zr, "docProps/core.xml")
	if f == nil {
		return models.DocumentMetadata{}
	}
	rc, err := f.Open()
	if err != nil {
		return models.DocumentMetadata{}
	}
	defer rc.Close()

	var props struct {
		Title   string `xml:"title"`
		Creator string `xml:"creator"`
	}
	if err := xml.NewDecoder(rc).Decode(&props); err != nil {
		return models.DocumentMetadata{}
	}
	return models.DocumentMetadata{
		Title:  strings.TrimSpace(props.Title),
		Author: strings.TrimSpace(props.Creator),
	}
}
