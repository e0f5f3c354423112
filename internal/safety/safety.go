package safety

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateName проверяет имя корня: один сегмент, без разделителей,
// не "." и не "..".
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("пустое имя")
	case name == "." || name == "..":
		return fmt.Errorf("недопустимое имя: %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("имя не должно содержать разделителей пути: %q", name)
	case filepath.IsAbs(name):
		return fmt.Errorf("абсолютные пути запрещены: %q", name)
	}
	return nil
}

// SafeJoin переводит путь плана ("Scenes/00_gym.unity") в путь на диске
// внутри root. Выход за пределы root — ошибка.
func SafeJoin(root, rel string) (string, error) {
	if filepath.IsAbs(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("абсолютные пути запрещены: %q", rel)
	}
	cleanRoot := filepath.Clean(root)
	p := filepath.Join(cleanRoot, filepath.FromSlash(rel))

	r, err := filepath.Rel(cleanRoot, p)
	if err != nil {
		return "", err
	}
	r = filepath.ToSlash(r)
	if r == ".." || strings.HasPrefix(r, "../") {
		return "", fmt.Errorf("попытка выхода за пределы корня: %s", rel)
	}
	return p, nil
}
