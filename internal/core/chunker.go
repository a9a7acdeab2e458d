package core

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const DiscordMessageLimit = 2000

// Chunker handles chunking of content for platform message limits.
// It buffers content and emits complete lines, or chunks when the buffer
// exceeds the maximum chunk size.
type Chunker struct {
	emit         func(string)
	buffer       *bytes.Buffer
	maxChunkSize int
}

func NewChunker(emit func(string), maxChunkSize int) *Chunker {
	return &Chunker{
		emit:         emit,
		buffer:       &bytes.Buffer{},
		maxChunkSize: maxChunkSize,
	}
}

// Write adds content to the buffer and emits complete lines immediately.
// While the buffer is too large it forces chunks out.
func (c *Chunker) Write(content string) {
	c.buffer.WriteString(content)

	// Emit complete lines immediately
	for {
		line, err := c.buffer.ReadString('\n')
		if err != nil {
			// No more complete lines, put back what we read
			if line != "" {
				c.buffer.WriteString(line)
			}
			break
		}
		line = strings.TrimSuffix(line, "\n")
		for len(line) > c.maxChunkSize {
			chunk, rest := bestSplit(line, c.maxChunkSize)
			c.emit(chunk)
			line = rest
		}
		if line != "" {
			c.emit(line)
		}
	}

	for c.buffer.Len() >= c.maxChunkSize {
		chunk, rest := bestSplit(c.buffer.String(), c.maxChunkSize)
		c.buffer.Reset()
		c.buffer.WriteString(rest)
		if chunk != "" {
			c.emit(chunk)
		}
	}
}

// Flush emits any remaining buffer content.
func (c *Chunker) Flush() {
	if c.buffer.Len() > 0 {
		c.emit(c.buffer.String())
		c.buffer.Reset()
	}
}

// bestSplit cuts s at the last space within max bytes, dropping the space.
// Without a space it hard breaks at a rune boundary.
func bestSplit(s string, max int) (string, string) {
	end := min(max, len(s))

	if idx := strings.LastIndexByte(s[:end], ' '); idx > 0 {
		return s[:idx], s[idx+1:]
	}

	if end < len(s) {
		for end > 0 && !utf8.RuneStart(s[end]) {
			end--
		}
		if end == 0 {
			end = min(max, len(s))
		}
	}
	return s[:end], s[end:]
}

// Split breaks text into pieces of at most max bytes. With perLine every line
// becomes its own piece, as IRC requires; otherwise lines are packed together.
func Split(text string, max int, perLine bool) []string {
	if text == "" {
		return nil
	}
	if max <= 0 {
		return []string{text}
	}

	var out []string
	if perLine {
		c := NewChunker(func(s string) { out = append(out, s) }, max)
		c.Write(text)
		c.Flush()
		return out
	}

	var packed strings.Builder
	add := func(piece string) {
		if packed.Len() > 0 && packed.Len()+1+len(piece) > max {
			out = append(out, packed.String())
			packed.Reset()
		} else if packed.Len() > 0 {
			packed.WriteByte('\n')
		}
		packed.WriteString(piece)
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > max {
			chunk, rest := bestSplit(line, max)
			add(chunk)
			line = rest
		}
		add(line)
	}
	if packed.Len() > 0 {
		out = append(out, packed.String())
	}
	return out
}
