package html

import (
	"fmt"
	"io"
	"strings"
)

// Handler receives tokenizer events in document order.
type Handler interface {
	OpenTag(name string, attrs map[string]string)
	CloseTag(name string)
	Text(data string)
}

// Parser drives a Handler from a Tokenizer. It does not build a tree;
// the only structural help it gives is closing void elements right
// after they open, so handlers always see balanced events for them.
type Parser struct {
	tokenizer *Tokenizer
	handler   Handler
}

func NewParser(r io.Reader, h Handler) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(r),
		handler:   h,
	}
}

func (p *Parser) Parse() error {
	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return fmt.Errorf("tokenizer error: %w", err)
		}
		switch token.Type {
		case TokenEOF:
			return nil
		case TokenStartTag:
			p.handler.OpenTag(token.TagName, token.Attributes)
			if IsVoid(token.TagName) {
				p.handler.CloseTag(token.TagName)
			}
		case TokenEndTag:
			// </br> and friends were already closed when they opened
			if IsVoid(token.TagName) {
				continue
			}
			p.handler.CloseTag(token.TagName)
		case TokenText:
			p.handler.Text(token.Text)
		}
	}
}

// Feed parses r and streams its events into h.
func Feed(r io.Reader, h Handler) error {
	return NewParser(r, h).Parse()
}

// FeedString is Feed for an in-memory fragment.
func FeedString(s string, h Handler) error {
	return Feed(strings.NewReader(s), h)
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "command": true,
	"embed": true, "hr": true, "img": true, "input": true, "keygen": true,
	"link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// IsVoid returns true for elements that never have content or an end tag.
func IsVoid(tagName string) bool {
	return voidTags[tagName]
}
