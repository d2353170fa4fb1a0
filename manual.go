package infodoc

import (
	"context"
	"time"
)

// DirManual is the name of the merged top-level directory manual.
const DirManual = "dir"

// File identifies one physical file on disk together with the decoder
// needed to read its text.
type File struct {
	Path    string    `json:"path"`
	Decoder string    `json:"decoder"`
	ModTime time.Time `json:"modTime"`
	Size    int64     `json:"size"`
}

// Manual identifies a logical Info document.
//
// The locator fills in the file fields and Fingerprint. Subfiles,
// HasTagTable and IndexCookies are derived from the manual's content by the
// navigation engine the first time the manual is loaded.
type Manual struct {
	// Name is the logical manual name as requested (e.g. "emacs").
	Name string `json:"name"`

	File

	// Fingerprint changes whenever the main file is modified.
	Fingerprint string `json:"fingerprint"`

	// Subfiles lists indirect subfiles in ascending offset order.
	// Empty if the manual is not split.
	Subfiles []Subfile `json:"subfiles,omitempty"`

	HasTagTable  bool `json:"hasTagTable"`
	IndexCookies bool `json:"indexCookies"`
}

// Validate returns an error if the manual contains invalid fields.
func (m *Manual) Validate() error {
	if m.Name == "" {
		return Errorf(EINVALID, "manual name required")
	}
	if m.Path == "" {
		return Errorf(EINVALID, "manual path required")
	}
	return nil
}

// Split reports whether the manual is split into indirect subfiles.
func (m *Manual) Split() bool {
	return len(m.Subfiles) > 0
}

// ManualLocator resolves logical manual names to files on disk.
type ManualLocator interface {
	// LocateManual finds the main file of the named manual.
	// Returns ENOMANUAL if no file exists in any search directory.
	LocateManual(ctx context.Context, name string) (*Manual, error)

	// LocateSubfile finds an indirect subfile of m. Subfiles live in the
	// same directory as the main file.
	// Returns ENOMANUAL if the subfile does not exist.
	LocateSubfile(ctx context.Context, m *Manual, name string) (*File, error)

	// DirFiles returns every directory file found along the search path,
	// in search order.
	DirFiles(ctx context.Context) ([]*File, error)
}

// FileLoader reads and decodes the text of a file.
type FileLoader interface {
	LoadFile(ctx context.Context, f *File) ([]byte, error)
}

// LocateManualIfExists is like LocateManual but returns a nil manual and a
// nil error when the manual does not exist.
func LocateManualIfExists(ctx context.Context, l ManualLocator, name string) (*Manual, error) {
	m, err := l.LocateManual(ctx, name)
	if ErrorCode(err) == ENOMANUAL {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return m, nil
}
