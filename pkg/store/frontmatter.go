package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// ParseFrontmatter splits a markdown file into YAML frontmatter, decoded into meta, and
// the markdown body, which is returned.
func ParseFrontmatter(content string, meta any) (string, error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return content, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return "", fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent := rest[:idx]
	body := rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")

	if err := yaml.Unmarshal([]byte(yamlContent), meta); err != nil {
		return "", fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	return body, nil
}

// SerializeFrontmatter renders meta as YAML frontmatter followed by body.
func SerializeFrontmatter(meta any, body string) (string, error) {
	yamlBytes, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// appendNote adds "- text" under a "## date" header, creating the header if needed.
func appendNote(body, date, text string) string {
	header := "## " + date

	if idx := strings.Index(body, header); idx >= 0 {
		after := idx + len(header)
		nl := strings.Index(body[after:], "\n")
		if nl == -1 {
			return body + "\n- " + text + "\n"
		}
		at := after + nl + 1
		return body[:at] + "- " + text + "\n" + body[at:]
	}

	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if body != "" {
		body += "\n"
	}
	return body + header + "\n- " + text + "\n"
}
