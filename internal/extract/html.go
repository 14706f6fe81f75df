package extract

import (
	"io"
	"strings"

	"github.com/ppiankov/replyscore/internal/model"
	"golang.org/x/net/html"
)

// DefaultMessageClass is the CSS class of message bubbles in saved WhatsApp Web pages
const DefaultMessageClass = "message-text"

// ParseHTML returns the text of every element carrying class, in document
// order. Elements nested inside a match are part of the outer message.
func ParseHTML(r io.Reader, class string) ([]model.Message, error) {
	if class == "" {
		class = DefaultMessageClass
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var messages []model.Message

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}

			if hasClass(n, class) {
				if text := visibleText(n); text != "" {
					messages = append(messages, model.Message{Text: text})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return messages, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// visibleText joins text nodes under n, skipping scripts/styles, with
// whitespace collapsed; <br> becomes a line break
func visibleText(n *html.Node) string {
	var lines []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = nil
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "br":
				flush()
				return
			}
		}

		if n.Type == html.TextNode {
			current = append(current, strings.Fields(n.Data)...)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	flush()

	return strings.Join(lines, "\n")
}
