package plan

// RootName — имя корня по умолчанию. В путях плана не появляется.
const RootName = "Assets"

// Node — один сегмент пути: каталог или файл.
// Дети принадлежат только своему родителю, обратных ссылок нет.
type Node struct {
	Name     string
	Children []*Node

	file bool // что сказала эвристика при создании узла
}

// NewRoot возвращает пустой корень-каталог.
func NewRoot() *Node {
	return &Node{Name: RootName}
}

// NewNode создаёт отдельный узел (используется при разборе JSON).
func NewNode(name string, file bool) *Node {
	return &Node{Name: name, file: file}
}

// IsFile — файл ли это. Узел с детьми всегда каталог,
// что бы ни сказала эвристика.
func (n *Node) IsFile() bool {
	return n.file && len(n.Children) == 0
}

// Child ищет ребёнка с точно таким же именем (с учётом регистра).
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Ensure возвращает существующего ребёнка name или добавляет новый в конец.
// Для существующего узла file игнорируется: побеждает первое вхождение.
func (n *Node) Ensure(name string, file bool) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	c := &Node{Name: name, file: file}
	n.Children = append(n.Children, c)
	return c
}

// Append добавляет ребёнка без слияния по имени.
func (n *Node) Append(c *Node) {
	n.Children = append(n.Children, c)
}

// Entry — элемент плоского плана: путь от корня и признак файла.
type Entry struct {
	Path   string `json:"path"`
	IsFile bool   `json:"isFile"`
}

// Flatten обходит дерево в глубину (pre-order), дети — в порядке добавления.
// Имя корня в пути не попадает.
func Flatten(root *Node) []Entry {
	if root == nil {
		return nil
	}
	var out []Entry
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		for _, c := range n.Children {
			p := c.Name
			if prefix != "" {
				p = prefix + "/" + c.Name
			}
			out = append(out, Entry{Path: p, IsFile: c.IsFile()})
			walk(c, p)
		}
	}
	walk(root, "")
	return out
}

// Folders оставляет только каталоги, без повторов, в исходном порядке.
func Folders(entries []Entry) []string {
	seen := make(map[string]bool, len(entries))
	var out []string
	for _, e := range entries {
		if e.IsFile || seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		out = append(out, e.Path)
	}
	return out
}

