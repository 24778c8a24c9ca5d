package feed

import (
	"fmt"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
)

const recordFields = 7

func unmarshalInstruction(data []byte, directory *Directory) (ins Instruction, err error) {
	var fields [recordFields][]byte
	n := 0
	for rest := data; rest != nil; n++ {
		if n == recordFields {
			return ins, fmt.Errorf("%w: too many fields", ErrInvalidRecord)
		}
		fields[n], rest = readField(rest)
	}
	if n != recordFields {
		return ins, fmt.Errorf("%w: %d fields, expected %d", ErrInvalidRecord, n, recordFields)
	}

	var ok bool
	if ins.ID, ok = readUint(fields[0]); !ok {
		return ins, fmt.Errorf("%w: id %q", ErrInvalidField, fields[0])
	}
	if ins.SymbolID, ok = directory.ID(string(fields[1])); !ok {
		return ins, fmt.Errorf("%w: %q", ErrUnknownSymbol, fields[1])
	}
	if len(fields[5]) != 1 {
		return ins, fmt.Errorf("%w: %q", ErrUnknownInstructionType, fields[5])
	}
	ins.Type = InstructionType(fields[5][0])
	if ins.Timestamp, ok = readUint(fields[6]); !ok {
		return ins, fmt.Errorf("%w: timestamp %q", ErrInvalidField, fields[6])
	}
	ins.Side = unmarshalSide(fields[2])

	switch ins.Type {
	case InstructionTypeCancel:
		// side, price and quantity are placeholders
		return ins, nil
	case InstructionTypeAdd:
		if !ins.Side.Valid() {
			return ins, fmt.Errorf("%w: side %q", ErrInvalidField, fields[2])
		}
	case InstructionTypeEdit:
	default:
		return ins, fmt.Errorf("%w: %q", ErrUnknownInstructionType, fields[5])
	}

	if ins.Price, err = matching.ParseUintBytes(fields[3]); err != nil {
		return ins, fmt.Errorf("%w: price %q", ErrInvalidField, fields[3])
	}
	if ins.Quantity, ok = readUint(fields[4]); !ok {
		return ins, fmt.Errorf("%w: quantity %q", ErrInvalidField, fields[4])
	}
	return ins, nil
}

func unmarshalSide(data []byte) matching.OrderSide {
	if len(data) != 1 {
		return 0
	}
	switch data[0] {
	case 'B':
		return matching.OrderSideBuy
	case 'S':
		return matching.OrderSideSell
	default:
		return 0
	}
}
