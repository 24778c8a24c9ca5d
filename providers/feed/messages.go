package feed

import (
	"github.com/cryptonstudio/ladder-matching-engine/matching"
)

// InstructionType is an enumeration of instruction types.
type InstructionType byte

const (
	InstructionTypeAdd    InstructionType = 'A'
	InstructionTypeCancel InstructionType = 'C'
	InstructionTypeEdit   InstructionType = 'E'
)

func (it InstructionType) String() string {
	switch it {
	case InstructionTypeAdd:
		return "add"
	case InstructionTypeCancel:
		return "cancel"
	case InstructionTypeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Instruction is a single record of the instruction stream:
//
//	id;TICKER;B|S;price;quantity;A|C|E;timestamp
//
// Side, price and quantity of cancel instructions are placeholders.
type Instruction struct {
	Type      InstructionType
	ID        uint64
	SymbolID  uint32
	Side      matching.OrderSide
	Price     matching.Uint
	Quantity  uint64
	Timestamp uint64
}
