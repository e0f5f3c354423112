package fsops

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foldersetup/internal/plan"
)

var quietLog = slog.New(slog.NewTextHandler(io.Discard, nil))

var sampleEntries = []plan.Entry{
	{Path: "Art"},
	{Path: "Scenes"},
	{Path: "Scenes/00_gym.unity", IsFile: true},
	{Path: "Data/config.asset", IsFile: true},
}

func applyArgs(root string) ApplyArgs {
	return ApplyArgs{
		Entries:  sampleEntries,
		DestRoot: filepath.Join(root, "Assets"),
		DirPerm:  0o755,
		FilePerm: 0o644,
		Out:      io.Discard,
		Log:      quietLog,
	}
}

func TestApplyCreatesTree(t *testing.T) {
	root := t.TempDir()
	a := applyArgs(root)
	a.Gitkeep = true
	require.NoError(t, Apply(a))

	dest := a.DestRoot
	assert.DirExists(t, filepath.Join(dest, "Art"))
	assert.FileExists(t, filepath.Join(dest, "Scenes", "00_gym.unity"))

	body, err := os.ReadFile(filepath.Join(dest, "Data", "config.asset"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Replace with your asset type")

	// .gitkeep только в пустом Art.
	assert.FileExists(t, filepath.Join(dest, "Art", gitkeep))
	assert.NoFileExists(t, filepath.Join(dest, "Scenes", gitkeep))
}

func TestApplyKeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	a := applyArgs(root)
	require.NoError(t, Apply(a))

	scene := filepath.Join(a.DestRoot, "Scenes", "00_gym.unity")
	require.NoError(t, os.WriteFile(scene, []byte("edited"), 0o644))

	require.NoError(t, Apply(a))
	body, _ := os.ReadFile(scene)
	assert.Equal(t, "edited", string(body))

	a.Force = true
	require.NoError(t, Apply(a))
	body, _ = os.ReadFile(scene)
	assert.Empty(t, body)
}

func TestApplyGitkeepSkipsNonEmptyFolder(t *testing.T) {
	root := t.TempDir()
	a := applyArgs(root)
	a.Gitkeep = true
	require.NoError(t, os.MkdirAll(filepath.Join(a.DestRoot, "Art"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.DestRoot, "Art", "logo.png"), nil, 0o644))

	require.NoError(t, Apply(a))
	assert.NoFileExists(t, filepath.Join(a.DestRoot, "Art", gitkeep))
}

func TestApplyConflicts(t *testing.T) {
	root := t.TempDir()
	a := applyArgs(root)
	require.NoError(t, os.MkdirAll(a.DestRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.DestRoot, "Art"), nil, 0o644))
	assert.Error(t, Apply(a))

	root = t.TempDir()
	a = applyArgs(root)
	require.NoError(t, os.MkdirAll(filepath.Join(a.DestRoot, "Scenes", "00_gym.unity"), 0o755))
	assert.Error(t, Apply(a))
}

func TestApplyDryRun(t *testing.T) {
	root := t.TempDir()
	var out bytes.Buffer
	a := applyArgs(root)
	a.DryRun = true
	a.Gitkeep = true
	a.Out = &out
	require.NoError(t, Apply(a))

	_, err := os.Stat(a.DestRoot)
	assert.True(t, os.IsNotExist(err))

	s := out.String()
	assert.Contains(t, s, "mkdir -p "+filepath.Join(a.DestRoot, "Scenes"))
	assert.Contains(t, s, "touch "+filepath.Join(a.DestRoot, "Scenes", "00_gym.unity"))
	assert.Contains(t, s, "touch "+filepath.Join(a.DestRoot, "Art", gitkeep))
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("mkdir -p "+filepath.Join(a.DestRoot, "Scenes")+"\n")))
}

func TestApplyRejectsEmptyPlanAndEscapes(t *testing.T) {
	root := t.TempDir()
	a := applyArgs(root)
	a.Entries = nil
	assert.Error(t, Apply(a))

	a.Entries = []plan.Entry{{Path: "../evil.txt", IsFile: true}}
	assert.Error(t, Apply(a))
	assert.NoFileExists(t, filepath.Join(root, "evil.txt"))
}

func TestHasContent(t *testing.T) {
	dir := t.TempDir()
	has, err := HasContent(dir)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sub.meta"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sub", gitkeep), nil, 0o644))
	has, err = HasContent(dir)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Sub", "Player.cs"), nil, 0o644))
	has, err = HasContent(dir)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = HasContent(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestDelete(t *testing.T) {
	root := t.TempDir()
	a := applyArgs(root)
	a.Gitkeep = true
	require.NoError(t, Apply(a))
	require.NoError(t, os.WriteFile(filepath.Join(a.DestRoot, "Art.meta"), nil, 0o644))

	d := DeleteArgs{
		Folders:  plan.Folders(sampleEntries),
		DestRoot: a.DestRoot,
		Out:      io.Discard,
		Log:      quietLog,
	}
	rep, err := Delete(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"Art"}, rep.Deleted)
	assert.Equal(t, []string{"Scenes"}, rep.Skipped)
	assert.NoDirExists(t, filepath.Join(a.DestRoot, "Art"))
	assert.NoFileExists(t, filepath.Join(a.DestRoot, "Art.meta"))
	assert.DirExists(t, filepath.Join(a.DestRoot, "Scenes"))

	d.DeleteContent = true
	rep, err = Delete(d)
	require.NoError(t, err)
	assert.Equal(t, []string{"Scenes"}, rep.Deleted)
	assert.NoDirExists(t, filepath.Join(a.DestRoot, "Scenes"))
}

func TestDeleteDryRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Art"), 0o755))

	var out bytes.Buffer
	rep, err := Delete(DeleteArgs{
		Folders:  []string{"Art", "Missing"},
		DestRoot: root,
		DryRun:   true,
		Out:      &out,
		Log:      quietLog,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Art"}, rep.Deleted)
	assert.Contains(t, out.String(), "rm -r "+filepath.Join(root, "Art"))
	assert.DirExists(t, filepath.Join(root, "Art"))

	_, err = Delete(DeleteArgs{DestRoot: root})
	assert.Error(t, err)
}

// gitkeeps — относительные пути всех .gitkeep под root.
func gitkeeps(t *testing.T, root string) []string {
	t.Helper()
	var got []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err == nil && d.Name() == gitkeep {
			rel, _ := filepath.Rel(root, p)
			got = append(got, rel)
		}
		return err
	})
	require.NoError(t, err)
	sort.Strings(got)
	return got
}

func TestApplyDryRunGitkeepMatchesRealRun(t *testing.T) {
	root := t.TempDir()
	a := applyArgs(root)
	a.Entries = append(append([]plan.Entry{}, sampleEntries...), plan.Entry{Path: "Prefabs"})
	a.Gitkeep = true
	require.NoError(t, os.MkdirAll(filepath.Join(a.DestRoot, "Art"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.DestRoot, "Art", "logo.png"), nil, 0o644))

	var out bytes.Buffer
	dry := a
	dry.DryRun = true
	dry.Out = &out
	require.NoError(t, Apply(dry))

	var planned []string
	for _, line := range strings.Split(out.String(), "\n") {
		p, ok := strings.CutPrefix(line, "touch ")
		if !ok || filepath.Base(p) != gitkeep {
			continue
		}
		rel, err := filepath.Rel(a.DestRoot, p)
		require.NoError(t, err)
		planned = append(planned, rel)
	}
	sort.Strings(planned)

	require.NoError(t, Apply(a))
	assert.Equal(t, []string{filepath.Join("Prefabs", gitkeep)}, planned)
	assert.Equal(t, planned, gitkeeps(t, a.DestRoot))
}

func TestDeleteDryRunMatchesRealRunForNested(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Art", "Sprites"), 0o755))
	d := DeleteArgs{
		Folders:  []string{"Art", "Art/Sprites"},
		DestRoot: root,
		DryRun:   true,
		Out:      io.Discard,
		Log:      quietLog,
	}
	dry, err := Delete(d)
	require.NoError(t, err)

	d.DryRun = false
	got, err := Delete(d)
	require.NoError(t, err)

	assert.Equal(t, []string{"Art"}, got.Deleted)
	assert.Equal(t, got, dry)
	assert.NoDirExists(t, filepath.Join(root, "Art"))
}
