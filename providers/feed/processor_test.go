package feed

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
)

// recorder collects all received instructions.
type recorder struct {
	instructions []Instruction
	failOn       uint64
}

var errStop = errors.New("stop")

func (r *recorder) record(ins Instruction) error {
	if r.failOn != 0 && ins.ID == r.failOn {
		return errStop
	}
	r.instructions = append(r.instructions, ins)
	return nil
}

func (r *recorder) OnAddInstruction(ins Instruction) error { return r.record(ins) }
func (r *recorder) OnCancelInstruction(ins Instruction) error { return r.record(ins) }
func (r *recorder) OnEditInstruction(ins Instruction) error { return r.record(ins) }

const stream = Header + "\n" +
	"1000;AAPL;B;100.5;10;A;1\n" +
	"1001;MSFT;S;99;20;A;2\n" +
	"1000;AAPL;B;0.00;0;C;3\n" +
	"1001;MSFT;S;98.75;5;E;4\n"

func TestProcessor(t *testing.T) {
	directory := NewDirectory("AAPL", "MSFT")

	t.Run("whole stream", func(t *testing.T) {
		r := &recorder{}
		p := NewProcessor(r, directory)
		require.NoError(t, p.Process(strings.NewReader(stream)))
		require.Len(t, r.instructions, 4)
		require.Equal(t, 5, p.Lines())

		require.Equal(t, InstructionTypeAdd, r.instructions[0].Type)
		require.Equal(t, uint32(0), r.instructions[0].SymbolID)
		require.Equal(t, "100.5", r.instructions[0].Price.ToFloatString())
		require.Equal(t, InstructionTypeCancel, r.instructions[2].Type)
		require.Equal(t, InstructionTypeEdit, r.instructions[3].Type)
		require.Equal(t, uint64(5), r.instructions[3].Quantity)
	})

	t.Run("byte by byte", func(t *testing.T) {
		whole, split := &recorder{}, &recorder{}
		require.NoError(t, NewProcessor(whole, directory).Process(strings.NewReader(stream)))
		require.NoError(t, NewProcessor(split, directory).Process(iotest.OneByteReader(strings.NewReader(stream))))
		require.Equal(t, whole.instructions, split.instructions)
	})

	t.Run("every split point", func(t *testing.T) {
		data := []byte(stream)
		for i := 0; i <= len(data); i++ {
			r := &recorder{}
			p := NewProcessor(r, directory)
			require.NoError(t, p.ProcessChunk(data[:i]))
			require.NoError(t, p.ProcessChunk(data[i:]))
			require.NoError(t, p.Flush())
			require.Len(t, r.instructions, 4, "split at %d", i)
		}
	})

	t.Run("no header no trailing line break", func(t *testing.T) {
		r := &recorder{}
		p := NewProcessor(r, directory)
		require.NoError(t, p.Process(strings.NewReader("1;AAPL;B;60;1;A;1\r\n\n2;AAPL;S;61;1;A;2")))
		require.Len(t, r.instructions, 2)
		require.Equal(t, uint64(2), r.instructions[1].ID)
	})

	t.Run("parse error line", func(t *testing.T) {
		r := &recorder{}
		p := NewProcessor(r, directory)
		err := p.Process(strings.NewReader(stream + "1002;GOOG;B;1;1;A;5\n"))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Equal(t, 6, parseErr.Line)
		require.ErrorIs(t, err, ErrUnknownSymbol)
		require.Len(t, r.instructions, 4)
	})

	t.Run("handler error stops processing", func(t *testing.T) {
		r := &recorder{failOn: 1001}
		err := NewProcessor(r, directory).Process(strings.NewReader(stream))
		require.ErrorIs(t, err, errStop)
		require.Len(t, r.instructions, 1)
	})

	t.Run("reader error", func(t *testing.T) {
		err := NewProcessor(&recorder{}, directory).Process(iotest.ErrReader(errStop))
		require.ErrorIs(t, err, errStop)
	})
}

func TestWriter(t *testing.T) {
	directory := NewDirectory("AAPL", "JPM")
	price, err := matching.NewUintFromFloatString("123.45")
	require.NoError(t, err)

	instructions := []Instruction{
		{Type: InstructionTypeAdd, ID: 1000, SymbolID: 1, Side: matching.OrderSideBuy, Price: price, Quantity: 10, Timestamp: 1},
		{Type: InstructionTypeCancel, ID: 1000, SymbolID: 1, Side: matching.OrderSideBuy, Timestamp: 2},
		{Type: InstructionTypeEdit, ID: 1001, SymbolID: 0, Side: matching.OrderSideSell, Price: price, Quantity: 990, Timestamp: 3},
	}

	buf := &bytes.Buffer{}
	w := NewWriter(buf, directory)
	require.NoError(t, w.WriteHeader())
	for _, ins := range instructions {
		require.NoError(t, w.Write(ins))
	}
	require.NoError(t, w.Flush())

	require.Equal(t, Header+"\n"+
		"1000;JPM;B;123.45;10;A;1\n"+
		"1000;JPM;B;0.00;0;C;2\n"+
		"1001;AAPL;S;123.45;990;E;3\n", buf.String())

	r := &recorder{}
	require.NoError(t, NewProcessor(r, directory).Process(buf))
	require.Equal(t, instructions, r.instructions)
}

func TestDirectory(t *testing.T) {
	directory := NewDirectory("AAPL", "MSFT")
	require.Equal(t, 2, directory.Len())
	require.Equal(t, uint32(1), directory.Add("MSFT"))
	require.Equal(t, uint32(2), directory.Add("GOOG"))

	id, ok := directory.ID("GOOG")
	require.True(t, ok)
	require.Equal(t, uint32(2), id)
	_, ok = directory.ID("TSLA")
	require.False(t, ok)

	require.Equal(t, "AAPL", directory.Name(0))
	require.Equal(t, "", directory.Name(3))
	require.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, directory.Names())
}
