package archive

import (
	"fmt"
	"io"

	"github.com/pnaio/pna"
	"github.com/pnaio/pna/chunk"
)

// SinkFactory opens the underlying byte sink for part index n (0-based).
type SinkFactory func(n int) (io.WriteCloser, error)

// SplitWriter drives a sequence of archive parts from a SinkFactory,
// transparently dividing entry groups across part boundaries whenever
// one does not fit in the remaining per-part byte budget (spec §4.7).
// Every part reserves room for magic, AHED, and a 12-byte terminator
// (ANXT or AEND share the same empty-chunk size, so the same reservation
// covers whichever one ends the part).
type SplitWriter struct {
	factory SinkFactory
	budget  int
	opts    []WriterOption

	partIndex int
	cur       *Writer
	curSink   io.WriteCloser
	used      int
}

// NewSplitWriter opens the first part and returns a ready SplitWriter.
// budget below pna.MinPartSize is rejected.
func NewSplitWriter(factory SinkFactory, budget int, opts ...WriterOption) (*SplitWriter, error) {
	if budget < pna.MinPartSize {
		return nil, pna.ErrSplitTooSmall
	}
	sw := &SplitWriter{factory: factory, budget: budget, opts: opts}
	if err := sw.openPart(); err != nil {
		return nil, err
	}
	return sw, nil
}

// emptyPartUsed is what sw.used is set to right after openPart: just
// magic(8) plus the AHED chunk, before any entry content is written.
var emptyPartUsed = 8 + chunk.EncodedLen(ahedBodyLen)

func (sw *SplitWriter) openPart() error {
	sink, err := sw.factory(sw.partIndex)
	if err != nil {
		return err
	}
	w, err := NewWriter(sink, sw.opts...)
	if err != nil {
		return err
	}
	sw.partIndex++
	sw.cur = w
	sw.curSink = sink
	sw.used = emptyPartUsed
	return nil
}

func (sw *SplitWriter) rollPart() error {
	if err := sw.cur.Continue(); err != nil {
		return err
	}
	if err := sw.curSink.Close(); err != nil {
		return err
	}
	return sw.openPart()
}

func chunksEncodedLen(chunks []chunk.Chunk) int {
	total := 0
	for _, c := range chunks {
		total += chunk.EncodedLen(len(c.Data))
	}
	return total
}

// WriteEntry writes an entry or solid-block group, splitting it across
// as many parts as necessary.
func (sw *SplitWriter) WriteEntry(chunks []chunk.Chunk) error {
	remaining := chunks
	for len(remaining) > 0 {
		available := sw.budget - sw.used - minChunkOverhead
		prefix, suffix, ok := Split(remaining, available)
		if !ok {
			if sw.used > emptyPartUsed {
				// This part already carries other content; a fresh,
				// fully empty part has more room, so it is worth a retry.
				if err := sw.rollPart(); err != nil {
					return err
				}
				continue
			}
			return fmt.Errorf("archive: chunk of %d encoded bytes does not fit in a %d-byte part budget: %w",
				chunk.EncodedLen(len(remaining[0].Data)), sw.budget, pna.ErrSplitTooSmall)
		}
		if len(prefix) > 0 {
			if err := sw.cur.WriteEntry(prefix); err != nil {
				return err
			}
			sw.used += chunksEncodedLen(prefix)
		}
		remaining = suffix
		if len(remaining) > 0 {
			if err := sw.rollPart(); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteAncillary emits an archive-level chunk, rolling to a new part
// first if it does not fit in the current one's remaining budget.
func (sw *SplitWriter) WriteAncillary(c chunk.Chunk) error {
	n := chunk.EncodedLen(len(c.Data))
	if sw.used+n+minChunkOverhead > sw.budget {
		if err := sw.rollPart(); err != nil {
			return err
		}
	}
	if err := sw.cur.WriteAncillary(c); err != nil {
		return err
	}
	sw.used += n
	return nil
}

// Finish terminates the final part with AEND and closes its sink.
func (sw *SplitWriter) Finish() error {
	if err := sw.cur.Finish(); err != nil {
		return err
	}
	return sw.curSink.Close()
}
