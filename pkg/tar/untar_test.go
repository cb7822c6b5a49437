package tar

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name string
	body string
	mode int64
	dir  bool
}

func buildArchive(t *testing.T, entries []entry) io.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: e.mode}
		if e.mode == 0 {
			hdr.Mode = 0o644
		}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())
	return &buf
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestUntar(t *testing.T) {
	dir := t.TempDir()

	src := buildArchive(t, []entry{
		{name: "mycrate-1.0.0", dir: true},
		{name: "mycrate-1.0.0/Cargo.toml", body: "[package]\nname = \"mycrate\"\n"},
		{name: "mycrate-1.0.0/src", dir: true},
		{name: "mycrate-1.0.0/src/lib.rs", body: "pub fn hello() {}\n"},
		{name: "mycrate-1.0.0/build.sh", body: "#!/bin/sh\n", mode: 0o755},
	})

	require.NoError(t, Untar(src, dir, "mycrate-1.0.0"))

	want := []string{"Cargo.toml", "build.sh", "src/lib.rs"}
	if diff := cmp.Diff(want, listFiles(t, dir)); diff != "" {
		t.Errorf("unexpected file set (-want +got):\n%s", diff)
	}

	content, err := os.ReadFile(filepath.Join(dir, "src", "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, "pub fn hello() {}\n", string(content))

	info, err := os.Stat(filepath.Join(dir, "build.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestUntarRejectsTraversal(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "out")
	require.NoError(t, os.Mkdir(dir, 0o755))

	src := buildArchive(t, []entry{
		{name: "mycrate-1.0.0/ok.txt", body: "fine"},
		{name: "../../evil", body: "nope"},
	})

	err := Untar(src, dir, "mycrate-1.0.0")
	assert.ErrorIs(t, err, ErrExtract)

	_, statErr := os.Stat(filepath.Join(parent, "evil"))
	assert.True(t, os.IsNotExist(statErr), "traversal entry must not be written")
}

func TestUntarRejectsForeignPrefix(t *testing.T) {
	src := buildArchive(t, []entry{
		{name: "othercrate-2.0.0/file.txt", body: "x"},
	})

	err := Untar(src, t.TempDir(), "mycrate-1.0.0")
	assert.ErrorIs(t, err, ErrExtract)
}

func TestUntarRejectsCorruptStream(t *testing.T) {
	err := Untar(bytes.NewReader([]byte("definitely not gzip")), t.TempDir(), "mycrate-1.0.0")
	assert.ErrorIs(t, err, ErrExtract)
}
