package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Info.Printf("hello %s", "world")
	l.Warn.Print("careful")
	l.Error.Print("broken")
	l.Debug.Print("hidden")

	out := buf.String()
	assert.Contains(t, out, "INFO: ")
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "WARN: ")
	assert.Contains(t, out, "ERROR: ")
	assert.NotContains(t, out, "hidden", "debug is discarded unless verbose")
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug.Print("shown")
	assert.Contains(t, buf.String(), "DEBUG: ")
	assert.Contains(t, buf.String(), "shown")
}

func TestTee(t *testing.T) {
	var a, b bytes.Buffer
	l := New(&a, false).Tee(&b)
	l.Info.Print("both")

	assert.Contains(t, a.String(), "both")
	assert.Contains(t, b.String(), "both")
}

func TestLineWriter(t *testing.T) {
	var lines []string
	l := New(LineWriter(func(line string) { lines = append(lines, line) }), false)

	l.Info.Print("first")
	l.Warn.Print("second\n")

	require.Len(t, lines, 2)
	assert.Regexp(t, `^INFO: \d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} first$`, lines[0])
	assert.Regexp(t, `^WARN: .* second$`, lines[1])
}

func TestOpenRunFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	start := time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC)

	f, err := OpenRunFile(dir, start, "3f2a9c1e-5b7d-4e0a-9c61-0d2b8e4f7a10")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, filepath.Join(dir, "shrink_2026-10-19_14-05-09_3f2a9c1e.log"), f.Name())

	New(f, false).Info.Print("written")
	require.NoError(t, f.Sync())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestOpenRunFile_SameSecondRunsGetSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 10, 19, 14, 5, 9, 0, time.UTC)

	first, err := OpenRunFile(dir, start, "aaaaaaaa-0000-0000-0000-000000000000")
	require.NoError(t, err)
	defer first.Close()
	second, err := OpenRunFile(dir, start, "bbbbbbbb-0000-0000-0000-000000000000")
	require.NoError(t, err)
	defer second.Close()

	assert.NotEqual(t, first.Name(), second.Name())

	_, err = OpenRunFile(dir, start, "aaaaaaaa-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestRunFileName_ShortID(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "shrink_2026-01-02_03-04-05_abc.log", RunFileName(start, "abc"))
}
