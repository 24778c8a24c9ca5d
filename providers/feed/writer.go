package feed

import (
	"bufio"
	"io"
	"strconv"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
)

// Header is the optional first line of the instruction stream.
const Header = "id;ticker;side;price;quantity;type;timestamp"

// Writer writes instructions in the stream format.
type Writer struct {
	w         *bufio.Writer
	directory *Directory
	buf       []byte
}

// NewWriter creates and returns new Writer instance.
func NewWriter(w io.Writer, directory *Directory) *Writer {
	return &Writer{
		w:         bufio.NewWriterSize(w, 4*chunkSize),
		directory: directory,
		buf:       make([]byte, 0, 128),
	}
}

// WriteHeader writes the header line.
func (w *Writer) WriteHeader() error {
	_, err := w.w.WriteString(Header + "\n")
	return err
}

// Write writes a single instruction.
func (w *Writer) Write(ins Instruction) error {
	b := w.buf[:0]
	b = strconv.AppendUint(b, ins.ID, 10)
	b = append(b, ';')
	b = append(b, w.directory.Name(ins.SymbolID)...)
	b = append(b, ';')
	if ins.Side == matching.OrderSideBuy {
		b = append(b, 'B')
	} else {
		b = append(b, 'S')
	}
	b = append(b, ';')
	if ins.Type == InstructionTypeCancel {
		b = append(b, "0.00;0"...)
	} else {
		b = append(b, ins.Price.ToFloatString()...)
		b = append(b, ';')
		b = strconv.AppendUint(b, ins.Quantity, 10)
	}
	b = append(b, ';', byte(ins.Type), ';')
	b = strconv.AppendUint(b, ins.Timestamp, 10)
	b = append(b, '\n')
	w.buf = b
	_, err := w.w.Write(b)
	return err
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
