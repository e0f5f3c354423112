package fsops

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"foldersetup/internal/plan"
	"foldersetup/internal/safety"
)

const gitkeep = ".gitkeep"

// Заготовки содержимого по расширению. Остальные файлы создаются пустыми.
var fileTemplates = map[string]string{
	".asset": "// TODO: Replace with your asset type.\n",
}

// ApplyArgs — параметры применения плана к файловой системе.
type ApplyArgs struct {
	Entries  []plan.Entry
	DestRoot string
	DryRun   bool
	Force    bool
	Gitkeep  bool // .gitkeep в пустые каталоги
	Quiet    bool
	DirPerm  os.FileMode
	FilePerm os.FileMode
	Out      io.Writer    // куда печатать действия; nil — stdout
	Log      *slog.Logger // nil — slog.Default()
}

type applier struct {
	ApplyArgs
	made map[string]bool // каталоги, уже созданные (или показанные в dry-run)
}

// Apply создаёт каталоги и файлы плана по порядку: родители раньше детей.
func Apply(a ApplyArgs) error {
	if len(a.Entries) == 0 {
		return fmt.Errorf("в плане нет ни одной записи")
	}
	if a.DirPerm == 0 {
		a.DirPerm = 0o755
	}
	if a.FilePerm == 0 {
		a.FilePerm = 0o644
	}
	ap := &applier{ApplyArgs: a, made: make(map[string]bool)}
	ap.Log = logger(a.Log)

	if err := ap.ensureDir(a.DestRoot); err != nil {
		return err
	}
	ap.Log.Debug("корень", "path", a.DestRoot)

	for _, e := range a.Entries {
		target, err := safety.SafeJoin(a.DestRoot, e.Path)
		if err != nil {
			return err
		}
		if e.IsFile {
			err = ap.ensureFile(target)
		} else {
			err = ap.ensureDir(target)
		}
		if err != nil {
			return err
		}
	}

	if a.Gitkeep {
		return ap.writeGitkeeps()
	}
	return nil
}

func (a *applier) ensureDir(path string) error {
	if a.made[path] {
		return nil
	}
	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		a.Log.Debug("каталог уже есть", "path", path)
		a.made[path] = true
		return nil

	case err == nil:
		return fmt.Errorf("конфликт: по пути %s уже существует файл", path)

	case os.IsNotExist(err):
		a.made[path] = true
		if a.DryRun {
			a.out("mkdir -p %s", path)
			return nil
		}
		if err := os.MkdirAll(path, a.DirPerm); err != nil {
			return fmt.Errorf("mkdir %s: %w", path, err)
		}
		if err := os.Chmod(path, a.DirPerm); err != nil {
			return err
		}
		a.Log.Debug("каталог создан", "path", path)
		return nil

	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}

func (a *applier) ensureFile(path string) error {
	if err := a.ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	body := fileTemplates[strings.ToLower(filepath.Ext(path))]

	info, err := os.Lstat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("конфликт: по пути %s уже есть каталог", path)

	case err == nil:
		if !a.Force {
			// Существующий файл не трогаем.
			a.Log.Debug("файл уже есть", "path", path)
			return nil
		}
		if a.DryRun {
			a.out("truncate %s", path)
			return nil
		}
		if err := os.WriteFile(path, []byte(body), a.FilePerm); err != nil {
			return fmt.Errorf("truncate %s: %w", path, err)
		}
		a.Log.Debug("файл перезаписан", "path", path)
		return nil

	case os.IsNotExist(err):
		if a.DryRun {
			a.out("touch %s", path)
			return nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, a.FilePerm)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		_, werr := io.WriteString(f, body)
		if err := f.Close(); werr == nil {
			werr = err
		}
		if werr != nil {
			return fmt.Errorf("write %s: %w", path, werr)
		}
		a.Log.Debug("файл создан", "path", path)
		return nil

	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}

// writeGitkeeps кладёт .gitkeep в каталоги, у которых нет детей ни в плане,
// ни на диске.
func (a *applier) writeGitkeeps() error {
	parents := make(map[string]bool)
	for _, e := range a.Entries {
		if dir := path.Dir(e.Path); dir != "." {
			parents[dir] = true
		}
	}

	for _, folder := range plan.Folders(a.Entries) {
		if parents[folder] {
			continue
		}
		dir, err := safety.SafeJoin(a.DestRoot, folder)
		if err != nil {
			return err
		}
		// В dry-run каталога может ещё не быть — тогда он пуст.
		items, err := os.ReadDir(dir)
		switch {
		case err == nil && len(items) > 0:
			continue
		case err != nil && !(a.DryRun && os.IsNotExist(err)):
			return fmt.Errorf("readdir %s: %w", dir, err)
		}
		if err := a.ensureFile(filepath.Join(dir, gitkeep)); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) out(format string, args ...interface{}) {
	if a.Quiet {
		return
	}
	w := a.Out
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
