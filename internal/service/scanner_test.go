package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/shrink/internal/domain"
)

const mb = 1024 * 1024

func relPaths(files []domain.SourceFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.ToSlash(f.RelPath))
	}
	return out
}

func TestScanner_Scan(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "a.mp4"), 10)
	writeFile(t, filepath.Join(src, "b.jpg"), 3*mb)
	writeFile(t, filepath.Join(src, "small.png"), mb)
	writeFile(t, filepath.Join(src, "notes.txt"), 3*mb)
	writeFile(t, filepath.Join(src, "2019", "trip", "c.MOV"), 10)
	writeFile(t, filepath.Join(src, "2019", "done.mkv"), 10)
	writeFile(t, filepath.Join(dst, "2019", "done.mkv"), 1)
	writeFile(t, filepath.Join(src, "d.png"), 2*mb)
	writeFile(t, filepath.Join(dst, "d.jpg"), 1)
	writeFile(t, filepath.Join(src, "e.mp4"), 10)
	writeFile(t, filepath.Join(dst, "e.jpg"), 1)

	log, buf := bufferLogger()
	files, err := NewScanner(log).Scan(src, dst, domain.DefaultEncodeSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"2019/trip/c.MOV", "a.mp4", "b.jpg", "e.mp4"}, relPaths(files))
	assert.Contains(t, buf.String(), "4 new file(s) found to process.")

	for _, f := range files {
		assert.Equal(t, filepath.Join(src, f.RelPath), f.AbsPath)
		assert.NotEqual(t, domain.ClassUnsupported, f.Class)
	}
	assert.Equal(t, int64(3*mb), files[2].Size)
}

func TestScanner_Scan_ImageThreshold(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "exact.jpg"), 2*mb)
	writeFile(t, filepath.Join(src, "below.jpg"), 3*mb/2)
	writeFile(t, filepath.Join(src, "above.jpg"), 2*mb+1)

	settings := domain.DefaultEncodeSettings()
	settings.ImageMinSizeBytes = 2 * mb

	files, err := NewScanner(discardLogger()).Scan(src, dst, settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"above.jpg"}, relPaths(files), "threshold is exclusive")
}

func TestScanner_Scan_ImagesDisabled(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "big.jpg"), 5*mb)
	writeFile(t, filepath.Join(src, "clip.webm"), 1)

	settings := domain.DefaultEncodeSettings()
	settings.ProcessImages = false

	files, err := NewScanner(discardLogger()).Scan(src, t.TempDir(), settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"clip.webm"}, relPaths(files))
}

func TestScanner_Scan_Idempotent(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "x", "a.avi"), 1)
	writeFile(t, filepath.Join(src, "x", "b.png"), 2*mb)

	scanner := NewScanner(discardLogger())
	settings := domain.DefaultEncodeSettings()

	files, err := scanner.Scan(src, dst, settings)
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		writeFile(t, f.DestinationPath(dst), 1)
	}

	files, err = scanner.Scan(src, dst, settings)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanner_Scan_RootErrors(t *testing.T) {
	scanner := NewScanner(discardLogger())

	_, err := scanner.Scan(filepath.Join(t.TempDir(), "missing"), t.TempDir(), domain.DefaultEncodeSettings())
	var scanErr *domain.ScanIOError
	assert.ErrorAs(t, err, &scanErr)

	file := filepath.Join(t.TempDir(), "file.mp4")
	writeFile(t, file, 1)
	_, err = scanner.Scan(file, t.TempDir(), domain.DefaultEncodeSettings())
	assert.ErrorAs(t, err, &scanErr)
}

func TestScanner_Scan_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "ok.mp4"), 1)
	locked := filepath.Join(src, "locked")
	writeFile(t, filepath.Join(locked, "hidden.mp4"), 1)
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	log, buf := bufferLogger()
	files, err := NewScanner(log).Scan(src, t.TempDir(), domain.DefaultEncodeSettings())
	require.NoError(t, err)
	assert.Equal(t, []string{"ok.mp4"}, relPaths(files))
	assert.Contains(t, buf.String(), "WARN: ")
}
