package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"foldersetup/internal/fsops"
	"foldersetup/internal/parser"
	"foldersetup/internal/plan"
	"foldersetup/internal/render"
	"foldersetup/internal/safety"
)

// Mode — что делать с разобранной структурой.
type Mode int

const (
	ModePrint  Mode = iota // только показать план
	ModeCreate             // создать каталоги и файлы
	ModeDelete             // удалить каталоги плана
)

// Options — все настройки запуска утилиты.
type Options struct {
	InPath        string // '-' — stdin
	Mode          Mode
	Format        string // text | json | tree (для ModePrint)
	Color         bool
	OutDir        string // родитель корня
	Root          string // имя корня на диске, обычно Assets
	DryRun        bool
	Force         bool
	Gitkeep       bool
	DeleteContent bool
	Quiet         bool
	DirPerm       os.FileMode
	FilePerm      os.FileMode

	Stdin  io.Reader
	Stdout io.Writer
	Log    *slog.Logger
}

// Run — главная функция приложения: читает вход, парсит, применяет.
func Run(o Options) error {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}

	// 1) Источник: файл или stdin.
	var r io.Reader
	if o.InPath == "-" {
		r = o.Stdin
	} else {
		f, err := os.Open(o.InPath)
		if err != nil {
			return fmt.Errorf("не удалось открыть входной файл %q: %w", o.InPath, err)
		}
		defer f.Close()
		r = f
	}

	// 2) Разбор в дерево и плоский план.
	root, err := parser.ParseReader(r)
	if err != nil {
		return fmt.Errorf("ошибка парсинга структуры: %w", err)
	}
	entries := plan.Flatten(root)
	o.Log.Debug("структура разобрана", "entries", len(entries))

	if o.Mode == ModePrint {
		return show(o, root, entries)
	}

	// 3) Корень на диске — один сегмент.
	if err := safety.ValidateName(o.Root); err != nil {
		return fmt.Errorf("корень проекта некорректен: %w", err)
	}
	dest := filepath.Join(o.OutDir, o.Root)

	switch o.Mode {
	case ModeCreate:
		err := fsops.Apply(fsops.ApplyArgs{
			Entries:  entries,
			DestRoot: dest,
			DryRun:   o.DryRun,
			Force:    o.Force,
			Gitkeep:  o.Gitkeep,
			Quiet:    o.Quiet,
			DirPerm:  o.DirPerm,
			FilePerm: o.FilePerm,
			Out:      o.Stdout,
			Log:      o.Log,
		})
		if err != nil {
			return err
		}
		if !o.Quiet && !o.DryRun {
			fmt.Fprintf(o.Stdout, "Готово: %s\n", dest)
		}

	case ModeDelete:
		rep, err := fsops.Delete(fsops.DeleteArgs{
			Folders:       plan.Folders(entries),
			DestRoot:      dest,
			DeleteContent: o.DeleteContent,
			DryRun:        o.DryRun,
			Quiet:         o.Quiet,
			Out:           o.Stdout,
			Log:           o.Log,
		})
		if err != nil {
			return err
		}
		if !o.Quiet && !o.DryRun {
			fmt.Fprintf(o.Stdout, "Удалено: %d, пропущено (есть содержимое): %d\n",
				len(rep.Deleted), len(rep.Skipped))
		}

	default:
		return fmt.Errorf("неизвестный режим: %d", o.Mode)
	}
	return nil
}

func show(o Options, root *plan.Node, entries []plan.Entry) error {
	switch o.Format {
	case "", "text":
		return render.Text(o.Stdout, entries)
	case "json":
		return render.JSON(o.Stdout, entries)
	case "tree":
		s := render.Plain
		if o.Color {
			s = render.ColorStyles(o.Stdout)
		}
		return render.Tree(o.Stdout, root, s)
	}
	return fmt.Errorf("неизвестный формат вывода: %q", o.Format)
}
