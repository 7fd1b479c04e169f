package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"buildcode-backend/models"

	"github.com/google/uuid"
)

// ExtractText pulls the text layer out of an uploaded document. Plain
// text passes through; PDFs get a best-effort pull of literal text
// operators from uncompressed content streams. Compressed or image-only
// PDFs yield an error, which fails the ingest job rather than silently
// producing an empty version.
func ExtractText(mimeType string, data []byte) (string, error) {
	if strings.HasPrefix(mimeType, "text/") {
		return string(data), nil
	}
	if mimeType == "application/pdf" {
		text := extractPDFText(data)
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("no extractable text layer in PDF (compressed or image-only)")
		}
		return text, nil
	}
	return "", fmt.Errorf("unsupported document type: %s", mimeType)
}

var (
	pdfTjPattern = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*T[jJ]`)
	pdfTJArray   = regexp.MustCompile(`\[((?:\\.|[^\\\]])*)\]\s*TJ`)
	pdfLiteral   = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// extractPDFText collects the literal strings fed to the Tj/TJ text
// operators. Only works on uncompressed streams.
func extractPDFText(data []byte) string {
	var sb strings.Builder

	for _, m := range pdfTjPattern.FindAllSubmatch(data, -1) {
		sb.WriteString(decodePDFString(string(m[1])))
		sb.WriteString("\n")
	}
	for _, m := range pdfTJArray.FindAllSubmatch(data, -1) {
		for _, lit := range pdfLiteral.FindAllSubmatch(m[1], -1) {
			sb.WriteString(decodePDFString(string(lit[1])))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// decodePDFString resolves the escape sequences PDF literal strings use
func decodePDFString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '(', ')', '\\':
			sb.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			end := i + 3
			if end > len(s) {
				end = len(s)
			}
			if v, err := strconv.ParseUint(s[i:end], 8, 8); err == nil {
				sb.WriteByte(byte(v))
				i = end - 1
			}
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// sectionHeading matches numbered clause headings like "101.1 Scope"
var sectionHeading = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(\S.*)$`)

const fallbackChunkSize = 2000

// SplitSections divides extracted document text into sections on
// numbered clause headings. Documents without recognizable headings
// fall back to fixed-size chunks with sequential section numbers.
func SplitSections(versionID uuid.UUID, text string) []*models.BuildingCodeSection {
	lines := strings.Split(text, "\n")

	var sections []*models.BuildingCodeSection
	var current *models.BuildingCodeSection
	var content strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(content.String())
		sections = append(sections, current)
		content.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := sectionHeading.FindStringSubmatch(trimmed); m != nil && len(m[2]) <= 120 {
			flush()
			current = &models.BuildingCodeSection{
				VersionID:     versionID,
				SectionNumber: m[1],
				Title:         m[2],
			}
			continue
		}
		if current != nil && trimmed != "" {
			content.WriteString(trimmed)
			content.WriteString("\n")
		}
	}
	flush()

	if len(sections) > 0 {
		return sections
	}
	return chunkFallback(versionID, text)
}

// chunkFallback splits unstructured text into fixed-size pieces
func chunkFallback(versionID uuid.UUID, text string) []*models.BuildingCodeSection {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sections []*models.BuildingCodeSection
	for i := 0; len(text) > 0; i++ {
		size := fallbackChunkSize
		if size > len(text) {
			size = len(text)
		}
		chunk := text[:size]
		text = text[size:]

		sections = append(sections, &models.BuildingCodeSection{
			VersionID:     versionID,
			SectionNumber: strconv.Itoa(i + 1),
			Title:         fmt.Sprintf("Part %d", i+1),
			Content:       chunk,
		})
	}
	return sections
}
