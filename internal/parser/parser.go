package parser

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"foldersetup/internal/plan"
)

// Format — способ записи структуры.
type Format int

const (
	Structured      Format = iota // JSON-дерево {name, children}
	PathList                      // по одному пути Assets/... на строку
	IndentedOutline               // дерево отступами, с маркерами или псевдографикой
)

func (f Format) String() string {
	switch f {
	case Structured:
		return "structured"
	case PathList:
		return "path-list"
	case IndentedOutline:
		return "indented-outline"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ErrEmptyInput — пустой текст или одни пробелы.
var ErrEmptyInput = errors.New("пустой текст структуры")

// DefaultStructure — пример, который показывается по --sample.
const DefaultStructure = `Assets
- Art
- Materials
- Scenes
    - 00_gym.unity
- Prefabs
- Scripts`

// Известные расширения файлов. Всё остальное считается каталогом.
var fileExtensions = []string{
	".unity", ".asset", ".txt", ".md", ".json", ".xml", ".shader",
	".mat", ".prefab", ".png", ".jpg", ".cs", ".asmdef",
}

// Итоговая строка утилиты tree: "3 directories, 5 files".
var treeSummary = regexp.MustCompile(`^\d+ director(y|ies)(, \d+ files?)?$`)

// IsFile — простая эвристика по суффиксу имени.
func IsFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range fileExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Classify выбирает формат по первому значимому символу
// и по доле строк, начинающихся с Assets/.
func Classify(text string) (Format, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, ErrEmptyInput
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return Structured, nil
	}

	lines := splitLines(text)
	paths := 0
	for _, l := range lines {
		l = strings.TrimLeftFunc(l, unicode.IsSpace)
		if strings.HasPrefix(l, "Assets/") || strings.HasPrefix(l, `Assets\`) {
			paths++
		}
	}
	if paths >= max(1, len(lines)/2) {
		return PathList, nil
	}
	return IndentedOutline, nil
}

// Parse определяет формат и строит дерево. Корень — синтетический каталог.
func Parse(text string) (*plan.Node, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	f, err := Classify(text)
	if err != nil {
		return nil, err
	}
	switch f {
	case Structured:
		return BuildFromStructured(text)
	case PathList:
		return BuildFromPathList(splitLines(text)), nil
	default:
		return BuildFromIndentedOutline(splitLines(text)), nil
	}
}

// ParseReader читает весь вход и вызывает Parse.
func ParseReader(r io.Reader) (*plan.Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("чтение структуры: %w", err)
	}
	return Parse(string(b))
}

// BuildFromPathList — каждая строка содержит полный путь.
// Промежуточные сегменты всегда каталоги, последний — по эвристике.
func BuildFromPathList(lines []string) *plan.Node {
	root := plan.NewRoot()
	for _, raw := range lines {
		l := raw
		if i := strings.IndexByte(l, '#'); i >= 0 {
			l = l[:i]
		}
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}

		parts := splitSegments(l)
		if len(parts) > 0 && strings.EqualFold(parts[0], plan.RootName) {
			parts = parts[1:]
		}

		parent := root
		for i, part := range parts {
			last := i == len(parts)-1
			parent = parent.Ensure(part, last && IsFile(part))
		}
	}
	return root
}

type frame struct {
	indent int
	node   *plan.Node
}

// BuildFromIndentedOutline восстанавливает вложенность по отступам.
// Сравниваются только реально встреченные отступы, шаг может быть любым.
func BuildFromIndentedOutline(lines []string) *plan.Node {
	root := plan.NewRoot()
	stack := []frame{{indent: -1, node: root}}
	seenContent := false

	for _, raw := range lines {
		content, indent := Normalize(raw)
		if content == "" || treeSummary.MatchString(content) {
			continue
		}

		parts := splitSegments(content)
		if len(parts) == 0 {
			continue
		}

		// Корень можно явно написать первой строкой.
		first := !seenContent
		seenContent = true
		if first && len(parts) == 1 && strings.EqualFold(parts[0], plan.RootName) {
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		parent := stack[len(stack)-1].node
		for _, part := range parts {
			parent = parent.Ensure(part, IsFile(part))
		}
		stack = append(stack, frame{indent: indent, node: parent})
	}
	return root
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// splitSegments режет по / и \ и выбрасывает пустые сегменты.
func splitSegments(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\\' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
