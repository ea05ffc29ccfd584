package alert

import "strings"

// DefaultTitle is shown for messages without a bracketed tag.
const DefaultTitle = "재난문자"

// ShareHeader is the first line of every copied or shared message.
const ShareHeader = "긴급재난문자"

// SplitTitle treats a leading [...] segment as the title. Only the first
// segment counts; later brackets stay in the body verbatim. Nested brackets
// are not handled.
func SplitTitle(text string) (title, body string, ok bool) {
	if !strings.HasPrefix(text, "[") {
		return "", text, false
	}
	end := strings.IndexByte(text, ']')
	if end < 0 {
		return "", text, false
	}
	return text[1:end], text[end+1:], true
}

// DisplayTitle returns the bracketed tag or DefaultTitle.
func DisplayTitle(m Message) string {
	if title, _, ok := SplitTitle(m.Text); ok {
		return title
	}
	return DefaultTitle
}

// Body returns the text with the leading tag removed.
func Body(m Message) string {
	_, body, _ := SplitTitle(m.Text)
	return body
}

// ShareText renders the canonical clipboard/share payload. Field order and
// separators are a stable format.
func ShareText(m Message) string {
	var b strings.Builder
	b.WriteString(ShareHeader)
	b.WriteString("\n* ")
	b.WriteString(m.Text)
	b.WriteString("\n* 발송 지역: ")
	b.WriteString(strings.Join(UniqueLocations(m.Locations), LocationSeparator))
	b.WriteString("\n* 발송일: ")
	b.WriteString(m.SentAt)
	return b.String()
}
