package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"foldersetup/internal/app"
	"foldersetup/internal/config"
	"foldersetup/internal/parser"
)

// Версию можно переопределить через -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		fail(err)
	}

	in := pflag.StringP("in", "i", "-", "Путь к файлу со структурой ('-' для stdin)")
	out := pflag.StringP("out", "o", cfg.OutDir, "Каталог, в котором лежит корень проекта")
	root := pflag.String("root", cfg.Root, "Имя корневого каталога на диске")

	create := pflag.BoolP("create", "c", false, "Создать каталоги и файлы")
	del := pflag.BoolP("delete", "d", false, "Удалить каталоги из структуры")
	format := pflag.StringP("format", "f", cfg.Format, "Вывод плана без изменений: text | json | tree")
	color := pflag.Bool("color", false, "Цветной вывод дерева (-f tree)")

	dry := pflag.BoolP("dry", "n", false, "Dry-run: только показать, что будет сделано")
	force := pflag.Bool("force", false, "Перезаписывать существующие файлы")
	gitkeep := pflag.Bool("gitkeep", cfg.Gitkeep, "Класть .gitkeep в пустые каталоги")
	delContent := pflag.Bool("delete-content", false, "При удалении не пропускать каталоги с файлами")

	verbose := pflag.BoolP("verbose", "v", false, "Подробный вывод")
	quiet := pflag.BoolP("quiet", "q", false, "Тихий режим (подавить обычные сообщения)")

	// Права по умолчанию: каталоги 0755, файлы 0644
	dpermStr := pflag.String("dperm", cfg.DirPerm, "Права для каталогов (восьмерично, например 0755)")
	fpermStr := pflag.String("fperm", cfg.FilePerm, "Права для файлов (восьмерично, например 0644)")

	sample := pflag.Bool("sample", false, "Показать пример структуры и выйти")
	help := pflag.BoolP("help", "h", false, "Показать справку и выйти")
	showVersion := pflag.BoolP("version", "V", false, "Показать версию и выйти")

	pflag.Usage = func() {
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(os.Stdout, `
%s — создаёт структуру каталогов и файлов из текстового описания.

Использование:
  %s [-i FILE] [-f text|json|tree]          показать план
  %s -c [-i FILE] [-o DIR] [-n] [--force]   создать
  %s -d [-i FILE] [-o DIR] [--delete-content] удалить

Флаги:
`, name, name, name, name)
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stdout, `
Форматы входа (определяются автоматически):
  JSON: {"name": "Assets", "children": [{"name": "Scenes", "children": [...]}]}
  Пути: по одному на строку, Assets/Scenes/Main.unity
  Отступы: "- Scenes" / "    - Main.unity", можно с ветками ├──/└── как у tree.
  Комментарии после # и ← отбрасываются. Файл — это имя с известным
  расширением (.unity, .cs, .prefab, ...); всё остальное — каталог.

Примеры:
  %[1]s --sample | %[1]s -f tree
  %[1]s -i struct.txt -c -o ./MyGame
  %[1]s -i struct.txt -d -n
`, name)
	}

	if helpByDefault(os.Args[1:], isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) {
		pflag.Usage()
		return
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}
	if *showVersion {
		fmt.Println(version)
		return
	}
	if *sample {
		fmt.Println(parser.DefaultStructure)
		return
	}
	if *create && *del {
		fail(fmt.Errorf("флаги -c и -d взаимоисключающие"))
	}

	level := slog.LevelInfo
	switch {
	case *verbose:
		level = slog.LevelDebug
	case *quiet:
		level = slog.LevelError
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	dperm, err := parsePerm(*dpermStr, 0o755)
	if err != nil {
		fail(fmt.Errorf("неверные права --dperm: %w", err))
	}
	fperm, err := parsePerm(*fpermStr, 0o644)
	if err != nil {
		fail(fmt.Errorf("неверные права --fperm: %w", err))
	}

	mode := app.ModePrint
	switch {
	case *create:
		mode = app.ModeCreate
	case *del:
		mode = app.ModeDelete
	}

	opts := app.Options{
		InPath:        *in,
		Mode:          mode,
		Format:        *format,
		Color:         *color,
		OutDir:        *out,
		Root:          *root,
		DryRun:        *dry,
		Force:         *force,
		Gitkeep:       *gitkeep,
		DeleteContent: *delContent,
		Quiet:         *quiet,
		DirPerm:       dperm,
		FilePerm:      fperm,
		Log:           log,
	}

	if err := app.Run(opts); err != nil {
		fail(err)
	}
}

// helpByDefault — без аргументов показываем справку, но только если
// на stdin терминал: "foldersetup < struct.txt" читает вход.
func helpByDefault(args []string, stdinTTY bool) bool {
	return len(args) == 0 && stdinTTY
}

func parsePerm(s string, def os.FileMode) (os.FileMode, error) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return def, nil
	}
	// base=0 понимает 0755/0o755; без ведущего нуля считаем восьмеричным
	base := 0
	if !strings.HasPrefix(ss, "0") {
		base = 8
	}
	u, err := strconv.ParseUint(ss, base, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(u), nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ошибка: %v\n", err)
	os.Exit(1)
}
