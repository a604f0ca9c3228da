package text

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontConfig holds optional paths to font files. Empty paths fall back to
// the bundled Go fonts.
type FontConfig struct {
	Regular    string
	Bold       string
	Italic     string
	BoldItalic string
	Monospace  string
	MonoBold   string
}

// DefaultFontConfig uses the bundled Go fonts for every style.
func DefaultFontConfig() FontConfig {
	return FontConfig{}
}

// FontPath returns the configured path for the given style combination,
// or "" when the bundled font should be used.
func (fc FontConfig) FontPath(bold, italic, mono bool) string {
	if mono {
		if bold && fc.MonoBold != "" {
			return fc.MonoBold
		}
		return fc.Monospace
	}
	if bold && italic && fc.BoldItalic != "" {
		return fc.BoldItalic
	}
	if bold {
		return fc.Bold
	}
	if italic {
		return fc.Italic
	}
	return fc.Regular
}

func bundled(bold, italic, mono bool) []byte {
	switch {
	case mono && bold:
		return gomonobold.TTF
	case mono:
		return gomono.TTF
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

type faceKey struct {
	bold, italic, mono bool
	size               float64
}

// Fonts parses fonts lazily and caches one face per style and size.
type Fonts struct {
	config FontConfig

	mu    sync.Mutex
	fonts map[faceKey]*truetype.Font
	faces map[faceKey]font.Face
}

func NewFonts(config FontConfig) *Fonts {
	return &Fonts{
		config: config,
		fonts:  make(map[faceKey]*truetype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

func (f *Fonts) font(bold, italic, mono bool) (*truetype.Font, error) {
	key := faceKey{bold: bold, italic: italic, mono: mono}
	if ft, ok := f.fonts[key]; ok {
		return ft, nil
	}
	data := bundled(bold, italic, mono)
	if path := f.config.FontPath(bold, italic, mono); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading font: %w", err)
		}
		data = b
	}
	ft, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	f.fonts[key] = ft
	return ft, nil
}

// Face returns the face for style.
func (f *Fonts) Face(s Style) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := faceKey{bold: s.Bold, italic: s.Italic, mono: s.Mono, size: s.Size}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	ft, err := f.font(s.Bold, s.Italic, s.Mono)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(ft, &truetype.Options{Size: s.Size, DPI: 72, Hinting: font.HintingFull})
	f.faces[key] = face
	return face, nil
}

// MeasureText returns the advance width and line height of text in style.
// When the font cannot be loaded a rough estimate is returned.
func (f *Fonts) MeasureText(text string, s Style) (width, height float64) {
	face, err := f.Face(s)
	if err != nil {
		return float64(len([]rune(text))) * s.Size * 0.6, s.Size * LineSpacing
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	w := font.MeasureString(face, text)
	return float64(w) / 64, s.Size * LineSpacing
}

// BreakTextIntoLines breaks text into lines that fit within maxWidth.
func (f *Fonts) BreakTextIntoLines(text string, s Style, maxWidth float64) []string {
	return f.BreakTextIntoLinesWithWrap(text, s, maxWidth, maxWidth)
}

// BreakTextIntoLinesWithWrap breaks text into lines where the first line fits
// within firstLineMax and subsequent lines fit within remainingMax. A word
// longer than a whole line is kept intact. NBSP never breaks.
func (f *Fonts) BreakTextIntoLinesWithWrap(text string, s Style, firstLineMax, remainingMax float64) []string {
	if w, _ := f.MeasureText(text, s); w <= firstLineMax {
		return []string{text}
	}

	leadingSpace := ""
	if strings.HasPrefix(text, " ") {
		leadingSpace = " "
	}
	words := strings.FieldsFunc(text, func(c rune) bool { return c == ' ' || c == '\t' })
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	current := ""
	for i, word := range words {
		if i == 0 {
			word = leadingSpace + word
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		limit := remainingMax
		if len(lines) == 0 {
			limit = firstLineMax
		}
		if w, _ := f.MeasureText(candidate, s); w <= limit {
			current = candidate
			continue
		}
		switch {
		case current != "":
			lines = append(lines, current)
		case len(lines) == 0 && firstLineMax < remainingMax:
			// nothing fits in the rest of the first line
			lines = append(lines, "")
		}
		current = strings.TrimLeft(word, " ")
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
