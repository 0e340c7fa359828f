package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Split separates a YAML front matter block from the note body and decodes
// it into meta. Content without front matter is returned unchanged as body.
func Split(content string, meta any) (string, bool, error) {
	if !strings.HasPrefix(content, fence) {
		return content, false, nil
	}
	rest := strings.TrimPrefix(content, fence)
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return "", false, fmt.Errorf("front matter: missing closing fence")
	}
	if meta != nil {
		if err := yaml.Unmarshal([]byte(rest[:idx]), meta); err != nil {
			return "", false, fmt.Errorf("front matter: %w", err)
		}
	}
	return rest[idx+1+len(fence):], true, nil
}

// Compose renders meta as YAML front matter followed by body.
func Compose(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("front matter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(fence)
	buf.Write(raw)
	buf.WriteString(fence)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteString(body)
	return buf.String(), nil
}
