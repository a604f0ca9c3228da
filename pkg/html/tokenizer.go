package html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenStartTag:
		return "StartTag"
	case TokenEndTag:
		return "EndTag"
	case TokenText:
		return "Text"
	case TokenEOF:
		return "EOF"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Text        string
	SelfClosing bool // True for tags ending with /> (XHTML self-closing syntax)
}

// Tokenizer turns an HTML fragment into a flat sequence of tokens.
// Comments, doctypes and processing instructions are skipped. Text is
// delivered with entities decoded but whitespace untouched: collapsing
// is the consumer's job because it depends on the open elements.
type Tokenizer struct {
	z    *html.Tokenizer
	done bool
}

func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{z: html.NewTokenizer(r)}
}

// NewStringTokenizer is a convenience wrapper for in-memory fragments.
func NewStringTokenizer(s string) *Tokenizer {
	return NewTokenizer(strings.NewReader(s))
}

func (t *Tokenizer) NextToken() (Token, error) {
	if t.done {
		return Token{Type: TokenEOF}, nil
	}
	for {
		tt := t.z.Next()
		switch tt {
		case html.ErrorToken:
			t.done = true
			if err := t.z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return Token{}, fmt.Errorf("reading html: %w", err)
			}
			return Token{Type: TokenEOF}, nil
		case html.TextToken:
			tok := t.z.Token()
			if tok.Data == "" {
				continue
			}
			return Token{Type: TokenText, Text: tok.Data}, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := t.z.Token()
			attributes := make(map[string]string, len(tok.Attr))
			for _, a := range tok.Attr {
				// first occurrence wins, as in browsers
				if _, ok := attributes[a.Key]; !ok {
					attributes[a.Key] = a.Val
				}
			}
			return Token{
				Type:        TokenStartTag,
				TagName:     tok.Data,
				Attributes:  attributes,
				SelfClosing: tt == html.SelfClosingTagToken,
			}, nil
		case html.EndTagToken:
			tok := t.z.Token()
			return Token{Type: TokenEndTag, TagName: tok.Data}, nil
		default:
			// comments and doctypes carry nothing renderable
		}
	}
}
