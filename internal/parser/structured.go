package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"foldersetup/internal/plan"
)

// DecodeError — текст похож на JSON, но не разбирается.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("некорректная JSON-структура: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// jsonNode — форма узла во входном JSON. Поле isFile, если есть,
// просто игнорируется декодером.
type jsonNode struct {
	Name     string      `json:"name"`
	Children []*jsonNode `json:"children"`
}

// BuildFromStructured разбирает JSON-дерево и заново классифицирует
// каждый узел по имени, включая корень.
// Массив верхнего уровня становится детьми корня по умолчанию.
// Повторяющиеся имена соседей здесь не сливаются. Корень без имени
// получает plan.RootName; ребёнок без имени или с "/" в имени — DecodeError.
func BuildFromStructured(text string) (*plan.Node, error) {
	text = strings.TrimSpace(text)

	var top jsonNode
	if strings.HasPrefix(text, "[") {
		top.Name = plan.RootName
		if err := json.Unmarshal([]byte(text), &top.Children); err != nil {
			return nil, &DecodeError{Err: err}
		}
	} else if err := json.Unmarshal([]byte(text), &top); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if strings.TrimSpace(top.Name) == "" {
		top.Name = plan.RootName
	}
	return convert(&top, "")
}

// convert переводит узел и проверяет имена детей: имя — ровно один
// непустой сегмент без разделителей.
func convert(j *jsonNode, at string) (*plan.Node, error) {
	n := plan.NewNode(j.Name, IsFile(j.Name))
	for i, c := range j.Children {
		if c == nil {
			continue
		}
		where := fmt.Sprintf("%s.children[%d]", at, i)
		switch {
		case strings.TrimSpace(c.Name) == "":
			return nil, &DecodeError{Err: fmt.Errorf("%s: пустое имя", where)}
		case strings.ContainsAny(c.Name, `/\`):
			return nil, &DecodeError{Err: fmt.Errorf("%s: имя %q содержит разделитель пути", where, c.Name)}
		}
		child, err := convert(c, where)
		if err != nil {
			return nil, err
		}
		n.Append(child)
	}
	return n, nil
}
