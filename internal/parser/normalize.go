package parser

import (
	"strings"
	"unicode/utf8"
)

// Псевдографика веток дерева. Вертикальные линии слева от имени —
// это продолжение уровней предков, поэтому они входят в отступ.
const (
	verticalGlyphs  = "│┃║"
	connectorGlyphs = "├└┌┬┴┼─━┣┗╰╭╟╚═"
	bulletMarkers   = "-*>•|"
)

// ASCII-ветки в стиле `tree --charset ascii`.
var asciiConnectors = []string{"|--", "`--", "+--"}

var glyphReplacer = func() *strings.Replacer {
	var pairs []string
	for _, g := range verticalGlyphs + connectorGlyphs {
		pairs = append(pairs, string(g), " ")
	}
	return strings.NewReplacer(pairs...)
}()

// Normalize убирает комментарии, псевдографику и маркеры списка
// и возвращает очищенное имя и отступ.
// Отступ: пробел = 1, таб = 4, вертикальная линия = 1.
// Собственная ветка строки (├──, └──, |--) в отступ не входит,
// так что "  ├── a" имеет отступ 2, а "│   └── b" — 4.
func Normalize(raw string) (string, int) {
	line := raw
	if i := strings.IndexAny(line, "#←"); i >= 0 {
		line = line[:i]
	}

	indent, i := 0, 0
scan:
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		switch {
		case r == ' ', r == '\u00a0': // tree пишет неразрывные пробелы
			indent++
		case r == '\t':
			indent += 4
		case strings.ContainsRune(verticalGlyphs, r):
			indent++
		case r == '|' && isAsciiRail(line[i+size:]):
			indent++
		default:
			break scan
		}
		i += size
	}

	rest := glyphReplacer.Replace(line[i:])
	rest = strings.TrimSpace(rest)
	for {
		if c, ok := cutConnector(rest); ok {
			rest = strings.TrimLeft(c, " \t")
			continue
		}
		r, size := utf8.DecodeRuneInString(rest)
		if size == 0 || !strings.ContainsRune(bulletMarkers, r) {
			break
		}
		rest = strings.TrimLeft(rest[size:], " \t")
	}

	return strings.TrimRight(rest, "/ \t"), indent
}

// isAsciiRail — "|" с двумя и более пробелами после него это линия уровня
// ("|   |-- x"), а не маркер списка ("| x").
func isAsciiRail(after string) bool {
	n := 0
	for n < len(after) && (after[n] == ' ' || after[n] == '\t') {
		n++
	}
	return n >= 2 && n < len(after)
}

func cutConnector(s string) (string, bool) {
	for _, c := range asciiConnectors {
		if rest, ok := strings.CutPrefix(s, c); ok {
			return strings.TrimLeft(rest, "-"), true
		}
	}
	return s, false
}
