package loader

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/internal/dto"
)

const frontmatterFence = "---"

// ParseMarkdown reads a definition written as markdown with a YAML
// frontmatter header. The header carries the document fields; the body
// becomes the description unless the header sets one. This is the same
// shape library directories store, one automaton per file.
func ParseMarkdown(data []byte) (*dto.Document, error) {
	header, body, err := splitFrontmatter(string(data))
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(header), &raw); err != nil {
		return nil, fmt.Errorf("parsing frontmatter: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty frontmatter")
	}

	doc, err := dto.Decode(raw)
	if err != nil {
		return nil, err
	}
	if doc.Description == "" {
		doc.Description = strings.TrimSpace(body)
	}
	return doc, nil
}

// splitFrontmatter separates the YAML header between --- fences from the
// markdown body.
func splitFrontmatter(content string) (header, body string, err error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterFence+"\n") {
		return "", "", fmt.Errorf("missing frontmatter: definition markdown must start with ---")
	}

	rest := normalized[len(frontmatterFence)+1:]
	end := strings.Index(rest, "\n"+frontmatterFence)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated frontmatter: closing --- not found")
	}

	header = rest[:end]
	body = rest[end+len(frontmatterFence)+1:]
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = ""
	}
	return header, body, nil
}
