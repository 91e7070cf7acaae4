package parse

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// selectionKey is the field whose presence marks a candidate object as the
// model's selection payload, as opposed to incidental JSON in surrounding
// prose.
const selectionKey = "bullets"

var fencedBlockRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractJSON pulls the most plausible JSON object out of arbitrary model
// output. Strategies, in order: a fenced code block, a raw object containing
// the selection key, any balanced object. Returns the candidate text and its
// start offset in raw, or ok=false when nothing object-shaped exists.
func extractJSON(raw string) (candidate string, start int, ok bool) {
	// Fenced code block first: models often wrap JSON despite instructions.
	if m := fencedBlockRE.FindStringSubmatchIndex(raw); m != nil {
		inner := strings.TrimSpace(raw[m[2]:m[3]])
		if strings.HasPrefix(inner, "{") {
			return inner, m[2] + strings.Index(raw[m[2]:m[3]], "{"), true
		}
	}

	// Raw object containing the selection key.
	if keyIdx := strings.Index(raw, `"`+selectionKey+`"`); keyIdx >= 0 {
		if cand, pos, found := enclosingObject(raw, keyIdx); found {
			if gjson.Valid(cand) && gjson.Get(cand, selectionKey).Exists() {
				return cand, pos, true
			}
		}
	}

	// Last resort: first balanced {...} anywhere.
	if open := strings.IndexByte(raw, '{'); open >= 0 {
		if end, found := balanceFrom(raw, open); found {
			return raw[open : end+1], open, true
		}
	}

	return "", 0, false
}

// enclosingObject finds the innermost balanced object that contains the byte
// at keyIdx, widening outward until one balances or no opening brace remains.
func enclosingObject(raw string, keyIdx int) (string, int, bool) {
	for open := strings.LastIndexByte(raw[:keyIdx], '{'); open >= 0; open = strings.LastIndexByte(raw[:open], '{') {
		end, found := balanceFrom(raw, open)
		if found && end >= keyIdx {
			return raw[open : end+1], open, true
		}
	}
	return "", 0, false
}

// balanceFrom scans forward from an opening brace to its matching close,
// respecting JSON string literals and escapes.
func balanceFrom(raw string, open int) (end int, ok bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// excerptAround returns a short excerpt of s centered near offset, for error
// spans.
func excerptAround(s string, offset int) (start, end int, excerpt string) {
	const window = 40

	start = offset - window
	if start < 0 {
		start = 0
	}
	end = offset + window
	if end > len(s) {
		end = len(s)
	}
	return start, end, s[start:end]
}
