package llm

import "strings"

// CleanModelJSON strips Markdown fences and surrounding prose from a model
// response that is supposed to be raw JSON. Models occasionally wrap their
// output in ```json fences despite instructions not to.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// If there is still prose around the JSON value, keep only the outermost
	// object or array.
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	var closer string
	if s[start] == '{' {
		closer = "}"
	} else {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
