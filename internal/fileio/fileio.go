// Package fileio loads and saves document files with the safety checks the
// editor applies before trusting a path: size caps, UTF-8 enforcement, and
// network mount reachability.
package fileio

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/saintfish/chardet"

	"github.com/turnip-editor/turnip/internal/errors"
)

// Size caps applied on load. Files above the soft limit need explicit
// confirmation; files above the hard limit are refused outright.
const (
	DefaultSoftLimit = 1 << 20   // 1 MB
	DefaultHardLimit = 100 << 20 // 100 MB
)

// Loader reads document files, enforcing size and encoding rules.
// The zero value is not usable; construct with NewLoader.
type Loader struct {
	SoftLimit int64
	HardLimit int64
}

// NewLoader creates a loader with the default size caps.
func NewLoader() *Loader {
	return &Loader{
		SoftLimit: DefaultSoftLimit,
		HardLimit: DefaultHardLimit,
	}
}

// Load reads the file at path. It returns ErrFileNotFound when the path does
// not exist, ErrTooLarge above the hard cap, ErrNeedsConfirm between the
// soft and hard caps (the file is not read in that case; call LoadAnyway
// after the user confirms), and ErrBadEncoding when the content is not
// valid UTF-8.
func (l *Loader) Load(path string) (string, error) {
	return l.load(path, false)
}

// LoadAnyway is Load with the soft cap waived. The hard cap and the
// encoding check still apply.
func (l *Loader) LoadAnyway(path string) (string, error) {
	return l.load(path, true)
}

func (l *Loader) load(path string, skipSoftLimit bool) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewFileError("cannot open file", errors.ErrFileNotFound).WithPath(path)
		}
		return "", errors.NewFileError("cannot stat file", err).WithPath(path)
	}

	size := info.Size()
	if size > l.HardLimit {
		return "", errors.NewFileError("refusing to load", errors.ErrTooLarge).
			WithPath(path).WithSize(size)
	}
	if !skipSoftLimit && size > l.SoftLimit {
		return "", errors.NewFileError("large file", errors.ErrNeedsConfirm).
			WithPath(path).WithSize(size).
			WithSeverity(errors.SeverityInfo)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewFileError("cannot read file", err).WithPath(path)
	}

	if !utf8.Valid(data) {
		msg := "file is not UTF-8"
		if guess := guessCharset(data); guess != "" {
			msg = "file appears to be " + guess + " encoded"
		}
		return "", errors.NewFileError(msg, errors.ErrBadEncoding).WithPath(path)
	}

	return string(data), nil
}

// guessCharset asks chardet for the most likely encoding of data, returning
// an empty string when detection fails or is too uncertain to be useful.
func guessCharset(data []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Confidence < 30 {
		return ""
	}
	return result.Charset
}

// Save writes content to path atomically via a temp file and rename, so a
// crash mid-write never leaves a truncated document behind.
func Save(path, content string) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errors.NewFileError("cannot create temp file", err).WithPath(path)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return errors.NewFileError("cannot write temp file", err).WithPath(path)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return errors.NewFileError("cannot sync temp file", err).WithPath(path)
	}
	if err := tmpFile.Close(); err != nil {
		return errors.NewFileError("cannot close temp file", err).WithPath(path)
	}

	// New files get the default mode; overwrites keep the old file's mode.
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return errors.NewFileError("cannot set permissions", err).WithPath(path)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.NewFileError("cannot replace file", err).WithPath(path)
	}

	success = true
	return nil
}
