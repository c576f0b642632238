package doc

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

// Document is a rendered document ready for export.
type Document struct {
	Title string
	Body  string
}

// ExportMarkdown writes the document as Markdown. The title becomes a
// top-level heading unless the body already starts with one.
func ExportMarkdown(d Document, path string) error {
	var sb strings.Builder
	if d.Title != "" && !strings.HasPrefix(strings.TrimSpace(d.Body), "# ") {
		sb.WriteString("# " + d.Title + "\n\n")
	}
	sb.WriteString(d.Body)
	if !strings.HasSuffix(d.Body, "\n") {
		sb.WriteString("\n")
	}
	return writeFile(path, sb.String())
}

// ExportHTML writes the document as a standalone HTML page. The body is
// treated as plain text: escaped and paragraph-split, not rendered as
// Markdown.
func ExportHTML(d Document, path string) error {
	var sb strings.Builder
	sb.WriteString("<!doctype html>\n<html>\n<head>\n")
	sb.WriteString("  <meta charset=\"utf-8\" />\n")
	sb.WriteString(fmt.Sprintf("  <title>%s</title>\n", html.EscapeString(d.Title)))
	sb.WriteString("  <style>body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; line-height: 1.6; }</style>\n")
	sb.WriteString("</head>\n<body>\n")
	if d.Title != "" {
		sb.WriteString(fmt.Sprintf("  <h1>%s</h1>\n", html.EscapeString(d.Title)))
	}
	for _, para := range strings.Split(d.Body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		escaped = strings.ReplaceAll(escaped, "\n", "<br />\n")
		sb.WriteString("  <p>" + escaped + "</p>\n")
	}
	sb.WriteString("</body>\n</html>\n")
	return writeFile(path, sb.String())
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
