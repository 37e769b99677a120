package report

import (
	"strings"

	"github.com/frahmantamala/mediscript/internal"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type FormatStyle string

const (
	FormatBold   FormatStyle = "bold"
	FormatItalic FormatStyle = "italic"
	FormatBullet FormatStyle = "bullet"
)

func (s FormatStyle) wrap(inner string) (string, bool) {
	switch s {
	case FormatBold:
		return "<strong>" + inner + "</strong>", true
	case FormatItalic:
		return "<em>" + inner + "</em>", true
	case FormatBullet:
		return "<ul><li>" + inner + "</li></ul>", true
	}
	return "", false
}

var errInvalidRange = internal.NewValidationError("selection is empty, out of bounds or cuts through markup", internal.ErrCodeInvalidRange)

var voidElements = map[atom.Atom]bool{
	atom.Br: true, atom.Hr: true, atom.Img: true, atom.Input: true, atom.Wbr: true,
}

// applyFormatting wraps content[start:end] in the markup for style.
func applyFormatting(content string, start, end int, style FormatStyle) (string, error) {
	if start < 0 || end > len(content) || start >= end {
		return "", errInvalidRange
	}
	if insideTag(content, start) || insideTag(content, end) {
		return "", errInvalidRange
	}

	selection := content[start:end]
	if !balanced(selection) {
		return "", errInvalidRange
	}

	wrapped, ok := style.wrap(selection)
	if !ok {
		return "", internal.NewValidationFieldError("style", "style must be one of bold, italic, bullet", internal.ErrCodeInvalidFormat)
	}
	return content[:start] + wrapped + content[end:], nil
}

// insideTag reports whether offset falls strictly between a '<' and its '>'.
func insideTag(content string, offset int) bool {
	open := strings.LastIndexByte(content[:offset], '<')
	if open < 0 {
		return false
	}
	return strings.IndexByte(content[open:offset], '>') < 0
}

// balanced reports whether every element opened in s is closed in s and no
// element closed in s was opened outside it.
func balanced(s string) bool {
	z := html.NewTokenizer(strings.NewReader(s))
	depth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return depth == 0
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[atom.Lookup(name)] {
				depth++
			}
		case html.EndTagToken:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
}
