package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile — файл настроек, который ищется в текущем каталоге.
const DefaultFile = "foldersetup.yaml"

// Config — значения по умолчанию для флагов CLI.
type Config struct {
	Root     string `yaml:"root"`
	OutDir   string `yaml:"out"`
	Gitkeep  bool   `yaml:"gitkeep"`
	DirPerm  string `yaml:"dir_perm"`
	FilePerm string `yaml:"file_perm"`
	Format   string `yaml:"format"`
}

func defaults() Config {
	return Config{
		Root:     "Assets",
		OutDir:   ".",
		Gitkeep:  true,
		DirPerm:  "0755",
		FilePerm: "0644",
		Format:   "text",
	}
}

// Load: .env (если есть), затем YAML-файл path (отсутствие не ошибка),
// затем переменные окружения FOLDERSETUP_*.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("чтение настроек %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return nil, fmt.Errorf("разбор настроек %s: %w", path, err)
			}
		}
	}

	if v := env("FOLDERSETUP_ROOT"); v != "" {
		c.Root = v
	}
	if v := env("FOLDERSETUP_OUT"); v != "" {
		c.OutDir = v
	}
	if v := env("FOLDERSETUP_FORMAT"); v != "" {
		c.Format = v
	}
	if v := env("FOLDERSETUP_GITKEEP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("FOLDERSETUP_GITKEEP=%q: %w", v, err)
		}
		c.Gitkeep = b
	}
	return &c, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
