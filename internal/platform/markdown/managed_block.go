package markdown

import "strings"

// Block is a generated region of a note delimited by HTML comments. Text
// outside the markers belongs to the user and survives regeneration.
type Block struct {
	start string
	end   string
}

func NewBlock(name string) Block {
	return Block{
		start: "<!-- gazeink:" + name + ":start -->",
		end:   "<!-- gazeink:" + name + ":end -->",
	}
}

// Replace swaps the block contents, appending the block if body lacks one.
func (b Block) Replace(body, generated string) string {
	block := b.start + "\n" + strings.TrimRight(generated, "\n") + "\n" + b.end
	if i, j, ok := b.locate(body); ok {
		return body[:i] + block + body[j:]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}

// Contents returns the text between the markers.
func (b Block) Contents(body string) (string, bool) {
	i, j, ok := b.locate(body)
	if !ok {
		return "", false
	}
	inner := body[i+len(b.start) : j-len(b.end)]
	return strings.Trim(inner, "\n"), true
}

func (b Block) locate(body string) (int, int, bool) {
	i := strings.Index(body, b.start)
	if i < 0 {
		return 0, 0, false
	}
	rel := strings.Index(body[i:], b.end)
	if rel < 0 {
		return 0, 0, false
	}
	return i, i + rel + len(b.end), true
}
