package services

import (
	"fmt"
	"strings"
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"`", "&#96;",
)

// EscapeHTML makes arbitrary text safe to embed in an HTML parse-mode message.
func EscapeHTML(text string) string {
	return htmlReplacer.Replace(text)
}

func FormatBold(text string) string {
	return fmt.Sprintf("<b>%s</b>", EscapeHTML(text))
}

func FormatCode(text string) string {
	return fmt.Sprintf("<code>%s</code>", EscapeHTML(text))
}
