package archive

import (
	"fmt"
	"io"
	"log"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
)

// Writer emits one archive part's chunk stream: magic, AHED, a sequence
// of entry groups, and a terminal ANXT or AEND (spec §4.2).
type Writer struct {
	w        io.Writer
	version  pna.FormatVersion
	logger   *log.Logger
	finished bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithLogger attaches a logger that records header, entry and
// termination events, following the level of detail the rest of this
// module's ambient stack uses for structural progress messages.
func WithLogger(l *log.Logger) WriterOption {
	return func(w *Writer) { w.logger = l }
}

// NewWriter writes the magic and an AHED chunk carrying pna.CurrentVersion
// to w, returning a Writer ready to accept entry groups.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	aw := &Writer{w: w, version: pna.CurrentVersion}
	for _, opt := range opts {
		opt(aw)
	}
	if err := writeMagic(aw.w); err != nil {
		return nil, err
	}
	if _, err := chunk.WriteTo(aw.w, chunk.Chunk{Type: chunk.AHED, Data: encodeAHED(aw.version)}); err != nil {
		return nil, err
	}
	if aw.logger != nil {
		aw.logger.Printf("archive: wrote header, version %d.%d", aw.version.Major, aw.version.Minor)
	}
	return aw, nil
}

// WriteEntry serializes a complete entry or solid-block chunk group
// (as returned by entry.Builder.Build or entry.SolidBuilder.Build).
func (aw *Writer) WriteEntry(chunks []chunk.Chunk) error {
	if aw.finished {
		return fmt.Errorf("archive: write after finish: %w", pna.ErrMalformedStream)
	}
	for _, c := range chunks {
		if _, err := chunk.WriteTo(aw.w, c); err != nil {
			return err
		}
	}
	if aw.logger != nil {
		if name := entryName(chunks); name != "" {
			aw.logger.Printf("archive: wrote entry %q", name)
		} else {
			aw.logger.Printf("archive: wrote entry group (%d chunks)", len(chunks))
		}
	}
	return nil
}

// WriteAncillary emits a single archive-level chunk between entries.
func (aw *Writer) WriteAncillary(c chunk.Chunk) error {
	if aw.finished {
		return fmt.Errorf("archive: write after finish: %w", pna.ErrMalformedStream)
	}
	_, err := chunk.WriteTo(aw.w, c)
	return err
}

// Continue emits ANXT, marking this part as continuing in a successor.
// The caller is responsible for opening a fresh Writer on the successor
// sink with the same version.
func (aw *Writer) Continue() error {
	if aw.finished {
		return fmt.Errorf("archive: already finished: %w", pna.ErrMalformedStream)
	}
	aw.finished = true
	if _, err := chunk.WriteTo(aw.w, chunk.Chunk{Type: chunk.ANXT}); err != nil {
		return err
	}
	if aw.logger != nil {
		aw.logger.Printf("archive: wrote ANXT, continuing in next part")
	}
	return nil
}

// Finish emits the terminal AEND. After Finish, the Writer must not be
// used again.
func (aw *Writer) Finish() error {
	if aw.finished {
		return fmt.Errorf("archive: already finished: %w", pna.ErrMalformedStream)
	}
	aw.finished = true
	if _, err := chunk.WriteTo(aw.w, chunk.Chunk{Type: chunk.AEND}); err != nil {
		return err
	}
	if aw.logger != nil {
		aw.logger.Printf("archive: wrote AEND")
	}
	return nil
}
