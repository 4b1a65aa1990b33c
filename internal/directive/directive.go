// Package directive implements the command protocol embedded in generated
// text: bracketed, pipe-delimited tags of the form
// [KIND: field1 | field2 | ...] that the bot extracts, normalizes and
// applies to persistent state. Text outside the tags is opaque.
package directive

import (
	"regexp"
	"strings"
)

// Kind identifies one directive tag keyword. The set is closed; keywords
// are matched literally and case-sensitively on the wire.
type Kind string

const (
	KindAddMedicine    Kind = "ADD_MEDICINE"
	KindRemoveMedicine Kind = "REMOVE_MEDICINE"
	KindAddFamily      Kind = "ADD_FAMILY"
	KindAddReminder    Kind = "ADD_REMINDER"
	KindShareAccess    Kind = "SHARE_ACCESS"
	KindCreateCabinet  Kind = "CREATE_CABINET"
	KindSwitchCabinet  Kind = "SWITCH_CABINET"
)

// Raw is one recognized tag before field normalization: the kind keyword
// and the untouched body between the colon and the closing bracket.
type Raw struct {
	Kind Kind
	Body string
}

// tagRe matches one well-formed directive tag. Matching is non-greedy
// across "]" and "." does not cross newlines, so an unterminated tag can
// never swallow the rest of the message. Unknown keywords simply do not
// match and are left in place.
var tagRe = regexp.MustCompile(
	`\[(ADD_MEDICINE|REMOVE_MEDICINE|ADD_FAMILY|ADD_REMINDER|SHARE_ACCESS|CREATE_CABINET|SWITCH_CABINET):\s*(.+?)\]`)

// Extract finds every recognized directive tag in text, in order of
// appearance. Malformed or unknown tags are silently skipped.
func Extract(text string) []Raw {
	matches := tagRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	raws := make([]Raw, 0, len(matches))
	for _, m := range matches {
		raws = append(raws, Raw{Kind: Kind(m[1]), Body: m[2]})
	}
	return raws
}

// Strip removes every recognized directive tag from text and trims the
// result. Tags that do not match the exact grammar are left untouched;
// a leaked malformed tag is a cosmetic defect, not an error.
func Strip(text string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(text, ""))
}

// fields splits a tag body on "|" and trims each field.
func fields(body string) []string {
	parts := strings.Split(body, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// field returns parts[i] or "" when the trailing field is absent.
func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
