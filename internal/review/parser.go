package review

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/Lillian1228/hsa-ai-assistant/internal/domain"
)

// reviewRequestKey is the top-level key that marks an embedded review
// request payload in agent output.
const reviewRequestKey = "review_request"

// reviewRequestAnchor is the substring used to locate a bare review request
// object outside any code fence.
const reviewRequestAnchor = `{"review_request"`

var (
	jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFencePattern  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractJSON scans free-form agent output for an embedded JSON object and
// returns the parsed mapping together with the text with the matched span
// removed. Most agent turns carry no embedded object, so a miss is a normal
// outcome, reported via ok=false rather than an error.
//
// Strategies are tried in order, first success wins:
//  1. a ```json fenced block
//  2. any fenced block
//  3. a bare object located by anchor substring and brace counting
//  4. the entire trimmed text
func ExtractJSON(text string) (payload map[string]interface{}, remainder string, ok bool) {
	if m := jsonFencePattern.FindStringSubmatchIndex(text); m != nil {
		if payload, ok = parseCandidate(text[m[2]:m[3]]); ok {
			return payload, removeSpan(text, m[0], m[1]), true
		}
	}

	if m := anyFencePattern.FindStringSubmatchIndex(text); m != nil {
		if payload, ok = parseCandidate(text[m[2]:m[3]]); ok {
			return payload, removeSpan(text, m[0], m[1]), true
		}
	}

	if start, end, found := findBalancedObject(text, reviewRequestAnchor); found {
		if payload, ok = parseCandidate(text[start:end]); ok {
			return payload, removeSpan(text, start, end), true
		}
	}

	if payload, ok = parseCandidate(strings.TrimSpace(text)); ok {
		return payload, "", true
	}

	return nil, text, false
}

// parseCandidate attempts to parse s as a JSON object. On failure it narrows
// once to the substring between the first '{' and the last '}' and retries,
// which recovers objects padded with stray prose inside a fence.
func parseCandidate(s string) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(s), &payload); err == nil {
		return payload, true
	}

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last <= first {
		return nil, false
	}
	if err := json.Unmarshal([]byte(s[first:last+1]), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// findBalancedObject locates the anchor substring in text and walks forward
// counting braces until the object closes. It deliberately does not depend on
// any parser library quirk; it is the documented fallback for agent output
// that embeds the object without a code fence.
func findBalancedObject(text, anchor string) (start, end int, found bool) {
	start = strings.Index(text, anchor)
	if start == -1 {
		return 0, 0, false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}
	return 0, 0, false
}

func removeSpan(text string, start, end int) string {
	return strings.TrimSpace(text[:start] + text[end:])
}

// ExtractReviewRequest scans agent output for an embedded review request.
// It returns the response text with the JSON span stripped and the parsed
// request, or nil when no well-formed request is present. Validation
// failures are logged and treated the same as a miss.
func ExtractReviewRequest(text string) (string, *domain.ReviewRequest) {
	payload, remainder, ok := ExtractJSON(text)
	if !ok {
		return text, nil
	}

	raw, ok := payload[reviewRequestKey].(map[string]interface{})
	if !ok {
		// Embedded JSON that is not a review request stays in the response.
		return text, nil
	}

	req, err := BuildReviewRequest(raw)
	if err != nil {
		log.Printf("Warning: discarding malformed review request: %v", err)
		return text, nil
	}

	return remainder, req
}
