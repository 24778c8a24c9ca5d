package feed

import (
	"bytes"
	"io"
)

const chunkSize = 1024 * 1024

// Processor reads the instruction stream by chunks and passes parsed instructions to the handler.
// Records split between chunks are collected in the cache.
// The first line is skipped as a header if it does not start with a digit.
type Processor struct {
	handler   Handler
	directory *Directory
	cache     []byte
	line      int
}

// NewProcessor creates and returns new Processor instance.
func NewProcessor(handler Handler, directory *Directory) *Processor {
	return &Processor{
		handler:   handler,
		directory: directory,
		cache:     make([]byte, 0, 256),
	}
}

// Process reads the whole stream.
func (p *Processor) Process(reader io.Reader) (err error) {
	chunk := make([]byte, chunkSize)
	for readBytes := 0; err != io.EOF; {
		// Read chunk bytes
		readBytes, err = reader.Read(chunk)
		if err != nil && err != io.EOF {
			return err
		}
		// Process the chunk
		if err := p.ProcessChunk(chunk[:readBytes]); err != nil {
			return err
		}
	}
	return p.Flush()
}

// ProcessChunk processes all complete records of the chunk and caches the incomplete tail.
func (p *Processor) ProcessChunk(chunk []byte) error {
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, '\n')
		if i < 0 {
			p.cache = append(p.cache, chunk...)
			return nil
		}

		line := chunk[:i]
		chunk = chunk[i+1:]
		if len(p.cache) > 0 {
			// Complete the record placed into the cache
			p.cache = append(p.cache, line...)
			line = p.cache
		}
		err := p.processLine(line)
		p.cache = p.cache[:0]
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush processes the cached record which is not terminated by a line break.
func (p *Processor) Flush() error {
	if len(p.cache) == 0 {
		return nil
	}
	err := p.processLine(p.cache)
	p.cache = p.cache[:0]
	return err
}

// Lines returns amount of lines processed so far.
func (p *Processor) Lines() int {
	return p.line
}

func (p *Processor) processLine(line []byte) error {
	p.line++
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) == 0 {
		return nil
	}
	if p.line == 1 && !isDigit(line[0]) {
		// header
		return nil
	}

	ins, err := unmarshalInstruction(line, p.directory)
	if err != nil {
		return &ParseError{Line: p.line, Err: err}
	}

	switch ins.Type {
	case InstructionTypeAdd:
		return p.handler.OnAddInstruction(ins)
	case InstructionTypeCancel:
		return p.handler.OnCancelInstruction(ins)
	default:
		return p.handler.OnEditInstruction(ins)
	}
}
