package agent

import (
	"regexp"
	"strings"
)

var (
	thinkingPattern = regexp.MustCompile(`(?is)#\s*THINKING PROCESS\s*(.*?)\s*#\s*FINAL RESPONSE`)
	finalPattern    = regexp.MustCompile(`(?is)#\s*FINAL RESPONSE\s*(.*)`)
	imageIDPattern  = regexp.MustCompile(`\[IMAGE-ID\s+([^\]\s]+)\]`)
)

// ExtractThinkingProcess splits a model response into its thinking process
// and the user-facing remainder. Responses without the section headers come
// back unchanged with an empty thinking process.
func ExtractThinkingProcess(text string) (thinking string, response string) {
	if m := thinkingPattern.FindStringSubmatch(text); m != nil {
		thinking = strings.TrimSpace(m[1])
	}
	if m := finalPattern.FindStringSubmatch(text); m != nil {
		return thinking, strings.TrimSpace(m[1])
	}
	return thinking, strings.TrimSpace(text)
}

// ExtractAttachmentIDs pulls [IMAGE-ID <id>] markers out of the response,
// returning the text with the markers removed and the ids in order of first
// appearance, de-duplicated.
func ExtractAttachmentIDs(text string) (string, []string) {
	seen := make(map[string]bool)
	var ids []string
	var cleaned strings.Builder
	last := 0
	for _, m := range imageIDPattern.FindAllStringSubmatchIndex(text, -1) {
		id := text[m[2]:m[3]]
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}

		// Swallow the spaces touching the marker so its removal does not
		// leave a doubled gap. Whitespace elsewhere is left alone.
		start, end := m[0], m[1]
		ateBefore := false
		for start > last && (text[start-1] == ' ' || text[start-1] == '\t') {
			start--
			ateBefore = true
		}
		if !ateBefore {
			for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
				end++
			}
		}
		cleaned.WriteString(text[last:start])
		last = end
	}
	cleaned.WriteString(text[last:])
	return strings.TrimSpace(cleaned.String()), ids
}
