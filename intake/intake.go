// Package intake validates raw file selections against the supported
// extension allow-list before they are handed to the document registry.
// Invalid files never reach the core; they are reported back as rejections.
package intake

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hupe1980/ragmesh/core"
	"github.com/hupe1980/ragmesh/logging"
)

// DefaultMaxFiles caps the number of files accepted from one selection.
const DefaultMaxFiles = 10

// ErrTooManyFiles marks files dropped because the selection exceeded MaxFiles.
var ErrTooManyFiles = errors.New("too many files in selection")

// File is a raw selection entry.
type File struct {
	Name string
	Path string
	Size int64
}

// Rejection explains why a file was not accepted.
type Rejection struct {
	File File
	Err  error
}

// Result splits a selection into accepted documents and rejections.
type Result struct {
	Accepted []core.Document
	Rejected []Rejection
}

// Names returns the names of the accepted documents in selection order.
func (r Result) Names() []string {
	names := make([]string, len(r.Accepted))
	for i, d := range r.Accepted {
		names[i] = d.Name
	}
	return names
}

// Options configures an Intake.
type Options struct {
	// MaxFiles limits accepted files per selection. Zero means unlimited.
	MaxFiles int
	// Extensions overrides the allow-list. Entries outside
	// core.SupportedExtensions are ignored.
	Extensions []core.Extension
	Logger     logging.Logger
}

// Intake filters file selections.
type Intake struct {
	maxFiles int
	allowed  map[core.Extension]struct{}
	logger   logging.Logger
}

// New returns an Intake accepting every supported extension.
func New(optFns ...func(o *Options)) *Intake {
	opts := Options{
		MaxFiles:   DefaultMaxFiles,
		Extensions: core.SupportedExtensions(),
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	allowed := make(map[core.Extension]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		if ext.Supported() {
			allowed[ext] = struct{}{}
		}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Intake{maxFiles: opts.MaxFiles, allowed: allowed, logger: opts.Logger}
}

// Accept validates files in order. Matching on extension is case-insensitive.
// Once MaxFiles documents are accepted, the remaining valid files are
// rejected with ErrTooManyFiles.
func (in *Intake) Accept(files ...File) Result {
	var res Result
	for _, f := range files {
		ext := core.ExtensionOf(f.Name)
		if _, ok := in.allowed[ext]; !ok {
			res.Rejected = append(res.Rejected, Rejection{
				File: f,
				Err:  fmt.Errorf("%w: %s has unsupported extension %q", core.ErrInvalidDocument, f.Name, ext),
			})
			continue
		}
		if in.maxFiles > 0 && len(res.Accepted) >= in.maxFiles {
			res.Rejected = append(res.Rejected, Rejection{
				File: f,
				Err:  fmt.Errorf("%w: limit is %d", ErrTooManyFiles, in.maxFiles),
			})
			continue
		}
		res.Accepted = append(res.Accepted, core.Document{
			ID:        uuid.NewString(),
			Name:      f.Name,
			SizeBytes: f.Size,
			Extension: ext,
			Path:      f.Path,
		})
	}
	if len(res.Rejected) > 0 {
		in.logger.Debug("intake rejected files", "accepted", len(res.Accepted), "rejected", len(res.Rejected))
	}
	return res
}

// Allowed reports whether ext is accepted by this intake.
func (in *Intake) Allowed(ext core.Extension) bool {
	_, ok := in.allowed[ext]
	return ok
}

// FromPaths stats each path and builds the matching File entries. Directories
// and unreadable paths are returned as an error.
func FromPaths(paths ...string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		files = append(files, File{Name: filepath.Base(p), Path: p, Size: info.Size()})
	}
	return files, nil
}
