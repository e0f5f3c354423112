// Package render печатает разобранную структуру: списком, JSON-ом
// или деревом с ветками ├──/└──. Вывод дерева снова разбирается парсером.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"foldersetup/internal/plan"
)

// Styles — оформление имён в дереве. Нулевое значение печатает как есть.
type Styles struct {
	Root   lipgloss.Style
	Folder lipgloss.Style
	File   lipgloss.Style
	Branch lipgloss.Style
	color  bool
}

// Plain — без цвета (для файлов и тестов).
var Plain = Styles{}

// ColorStyles — цвета для терминала w. Если w не терминал,
// lipgloss сам отключит цвет.
func ColorStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Root:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Folder: r.NewStyle().Foreground(lipgloss.Color("39")),
		File:   r.NewStyle().Foreground(lipgloss.Color("252")),
		Branch: r.NewStyle().Foreground(lipgloss.Color("240")),
		color:  true,
	}
}

func (s Styles) apply(st lipgloss.Style, text string) string {
	if !s.color {
		return text
	}
	return st.Render(text)
}

// Text — по строке на запись: "D path" или "F path".
func Text(w io.Writer, entries []plan.Entry) error {
	for _, e := range entries {
		kind := "D"
		if e.IsFile {
			kind = "F"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", kind, e.Path); err != nil {
			return err
		}
	}
	return nil
}

// JSON — массив {"path", "isFile"}.
func JSON(w io.Writer, entries []plan.Entry) error {
	if entries == nil {
		entries = []plan.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Tree печатает дерево: строка корня, затем ветки. Каталоги — с "/" в конце.
// Корень всегда пишется как plan.RootName: в путях плана его имени нет,
// а парсер узнаёт в первой строке только его.
func Tree(w io.Writer, root *plan.Node, s Styles) error {
	var b strings.Builder
	b.WriteString(s.apply(s.Root, plan.RootName))
	b.WriteByte('\n')
	writeChildren(&b, root, "", s)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeChildren(b *strings.Builder, n *plan.Node, prefix string, s Styles) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1
		connector, next := "├── ", "│   "
		if last {
			connector, next = "└── ", "    "
		}

		name := c.Name
		if c.IsFile() {
			name = s.apply(s.File, name)
		} else {
			name = s.apply(s.Folder, name+"/")
		}
		b.WriteString(s.apply(s.Branch, prefix+connector))
		b.WriteString(name)
		b.WriteByte('\n')

		writeChildren(b, c, prefix+next, s)
	}
}
