package fsops

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"foldersetup/internal/safety"
)

// Служебные файлы не считаются содержимым каталога.
var nonContent = map[string]bool{".meta": true, gitkeep: true}

var errContentFound = errors.New("content found")

// DeleteArgs — параметры удаления каталогов плана.
type DeleteArgs struct {
	Folders       []string // пути плана, только каталоги
	DestRoot      string
	DeleteContent bool // удалять и каталоги с содержимым
	DryRun        bool
	Quiet         bool
	Out           io.Writer
	Log           *slog.Logger
}

// DeleteReport — что удалено и что пропущено из-за содержимого.
type DeleteReport struct {
	Deleted []string
	Skipped []string
}

// Delete удаляет каталоги по порядку. Отсутствующие пропускаются молча,
// каталоги с содержимым — только при DeleteContent.
// Рядом лежащий <каталог>.meta удаляется вместе с каталогом.
func Delete(a DeleteArgs) (DeleteReport, error) {
	var rep DeleteReport
	if len(a.Folders) == 0 {
		return rep, fmt.Errorf("в плане нет каталогов")
	}
	log := logger(a.Log)
	pr := &applier{ApplyArgs: ApplyArgs{Quiet: a.Quiet, Out: a.Out}}

	var gone []string // уже удалённые в dry-run каталоги
	for _, folder := range a.Folders {
		if a.DryRun && under(folder, gone) {
			continue
		}
		dir, err := safety.SafeJoin(a.DestRoot, folder)
		if err != nil {
			return rep, err
		}
		info, err := os.Lstat(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return rep, fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}

		if !a.DeleteContent {
			has, err := HasContent(dir)
			if err != nil {
				return rep, err
			}
			if has {
				log.Info("каталог не пуст, пропускаю", "path", dir)
				rep.Skipped = append(rep.Skipped, folder)
				continue
			}
		}

		if a.DryRun {
			pr.out("rm -r %s", dir)
			rep.Deleted = append(rep.Deleted, folder)
			gone = append(gone, folder)
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return rep, fmt.Errorf("rm %s: %w", dir, err)
		}
		if err := os.Remove(dir + ".meta"); err != nil && !os.IsNotExist(err) {
			return rep, fmt.Errorf("rm %s.meta: %w", dir, err)
		}
		log.Debug("каталог удалён", "path", dir)
		rep.Deleted = append(rep.Deleted, folder)
	}
	return rep, nil
}

// under — лежит ли путь плана p внутри одного из dirs.
func under(p string, dirs []string) bool {
	for _, d := range dirs {
		if p == d || strings.HasPrefix(p, d+"/") {
			return true
		}
	}
	return false
}

// HasContent — есть ли в каталоге (на любой глубине) хоть один файл,
// кроме .meta и .gitkeep.
func HasContent(dir string) (bool, error) {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !nonContent[strings.ToLower(filepath.Ext(p))] {
			return errContentFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errContentFound):
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("обход %s: %w", dir, err)
	}
	return false, nil
}
