package archive

import "github.com/pnaio/pna/chunk"

// minChunkOverhead is the framing cost of an empty chunk: 4-byte length,
// 4-byte type, 4-byte CRC.
const minChunkOverhead = 12

// Split divides an entry or solid-block chunk group into a prefix that
// fits within budget serialized bytes and a suffix holding the rest
// (spec §4.7). ok is false when nothing at all fits, meaning the caller
// must finalize the current part and retry Split on a fresh budget.
//
// Non-stream chunks are atomic: if one does not fit, the split falls
// immediately before it. A stream chunk (FDAT/SDAT) may instead be cut
// at a byte offset, provided the prefix still has room for a full
// 12-byte chunk header/trailer plus at least one data byte; the
// function then synthesizes two chunks of the same type from it.
func Split(chunks []chunk.Chunk, budget int) (prefix, suffix []chunk.Chunk, ok bool) {
	used := 0
	for i, c := range chunks {
		n := chunk.EncodedLen(len(c.Data))
		if used+n <= budget {
			used += n
			continue
		}
		if chunk.IsStreamType(c.Type) {
			remaining := budget - used
			if remaining > minChunkOverhead {
				splitAt := remaining - minChunkOverhead
				if splitAt > len(c.Data) {
					splitAt = len(c.Data)
				}
				if splitAt > 0 {
					first := chunk.Chunk{Type: c.Type, Data: c.Data[:splitAt]}
					second := chunk.Chunk{Type: c.Type, Data: c.Data[splitAt:]}
					prefix = append(append([]chunk.Chunk{}, chunks[:i]...), first)
					suffix = append([]chunk.Chunk{second}, chunks[i+1:]...)
					return prefix, suffix, true
				}
			}
		}
		if i == 0 {
			return nil, nil, false
		}
		return chunks[:i], chunks[i:], true
	}
	return chunks, nil, true
}
