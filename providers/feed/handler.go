package feed

// Handler receives parsed instructions in the stream order.
// Returned error stops processing of the stream.
type Handler interface {
	OnAddInstruction(ins Instruction) error
	OnCancelInstruction(ins Instruction) error
	OnEditInstruction(ins Instruction) error
}
