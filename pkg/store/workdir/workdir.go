package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	inputExt  = ".pdf"
	outputExt = ".xlsx"
	dirPerm   = 0o777
)

// Dir is the scratch directory holding one request's input and output files.
type Dir struct {
	fs   afero.Fs
	root string
}

// Job owns the scratch paths of a single conversion. Close removes them.
type Job struct {
	ID         string
	InputPath  string
	OutputPath string

	fs   afero.Fs
	once sync.Once
	err  error
}

func NewDir(fs afero.Fs, root string) (*Dir, error) {
	if fs == nil {
		return nil, fmt.Errorf("filesystem is nil")
	}
	if root == "" {
		return nil, fmt.Errorf("work dir is required")
	}
	return &Dir{fs: fs, root: filepath.Clean(root)}, nil
}

func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) Fs() afero.Fs {
	return d.fs
}

// Ensure creates the directory tree if it does not exist yet.
func (d *Dir) Ensure() error {
	if err := d.fs.MkdirAll(d.root, dirPerm); err != nil {
		return fmt.Errorf("create work dir %s: %w", d.root, err)
	}
	return nil
}

// Acquire reserves a pair of scratch paths keyed by a random id, so uploads
// sharing a client filename never collide.
func (d *Dir) Acquire() (*Job, error) {
	if err := d.Ensure(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	return &Job{
		ID:         id,
		InputPath:  filepath.Join(d.root, id+inputExt),
		OutputPath: filepath.Join(d.root, id+outputExt),
		fs:         d.fs,
	}, nil
}

// Close removes both scratch files. Missing files are not an error and
// repeated calls return the first result.
func (j *Job) Close() error {
	j.once.Do(func() {
		var errs []error
		for _, path := range []string{j.InputPath, j.OutputPath} {
			if err := j.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
			}
		}
		j.err = errors.Join(errs...)
	})
	return j.err
}

// SanitizeFilename reduces a client supplied name to its last path segment.
// Both slash styles count as separators regardless of the host OS.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	switch name {
	case "", ".", "..":
		return "", fmt.Errorf("invalid filename %q", name)
	}
	return name, nil
}

// OutputFilename swaps a trailing .pdf extension for .xlsx. Names without it
// just get .xlsx appended.
func OutputFilename(name string) string {
	if strings.EqualFold(filepath.Ext(name), inputExt) {
		name = name[:len(name)-len(inputExt)]
	}
	return name + outputExt
}
