package w3g

import "fmt"

// ParseError is the base error type for parsing errors.
type ParseError struct {
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X", e.Message, e.Offset)
	}
	return e.Message
}

// MalformedHeaderError indicates a bad magic string or header field.
type MalformedHeaderError struct {
	ParseError
}

// SizeMismatchError indicates a block decompressed to a different length
// than its header declared.
type SizeMismatchError struct {
	ParseError
	Block    int
	Declared int
	Actual   int
}

// DecompressionError indicates the codec failed on a data block.
type DecompressionError struct {
	ParseError
	Block int
	Err   error
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// OutOfBoundsError indicates a read past the end of the buffer.
type OutOfBoundsError struct {
	ParseError
	Want int
	Have int
}

// UnexpectedTagError indicates a structural tag in the static section did
// not match.
type UnexpectedTagError struct {
	ParseError
	Want uint8
	Got  uint8
}

// DuplicateColorError indicates two occupied slots share a color.
type DuplicateColorError struct {
	ParseError
	Color uint8
}

// UnrecognizedActionError indicates an action kind outside the dispatch
// table inside a command block.
type UnrecognizedActionError struct {
	ParseError
	Kind uint8
}

// CommandBlockLengthError indicates the actions of a command block did not
// consume exactly the declared number of bytes.
type CommandBlockLengthError struct {
	ParseError
	PlayerID uint8
	Declared int
	Consumed int
}

// UnknownBlockError is returned in strict mode for unrecognised top-level
// blocks.
type UnknownBlockError struct {
	ParseError
	Tag uint8
}

// Helper functions for creating errors

func newMalformedHeaderError(msg string, offset int) *MalformedHeaderError {
	return &MalformedHeaderError{ParseError{Message: msg, Offset: offset}}
}

func newSizeMismatchError(block, declared, actual, offset int) *SizeMismatchError {
	return &SizeMismatchError{
		ParseError: ParseError{
			Message: fmt.Sprintf("block %d decompressed to %d bytes, header declares %d", block, actual, declared),
			Offset:  offset,
		},
		Block:    block,
		Declared: declared,
		Actual:   actual,
	}
}

func newDecompressionError(block int, err error, offset int) *DecompressionError {
	return &DecompressionError{
		ParseError: ParseError{
			Message: fmt.Sprintf("block %d decompression failed: %v", block, err),
			Offset:  offset,
		},
		Block: block,
		Err:   err,
	}
}

func newOutOfBoundsError(offset, want, have int) *OutOfBoundsError {
	return &OutOfBoundsError{
		ParseError: ParseError{
			Message: fmt.Sprintf("read of %d bytes with %d remaining", want, have),
			Offset:  offset,
		},
		Want: want,
		Have: have,
	}
}

func newUnexpectedTagError(want, got uint8, offset int) *UnexpectedTagError {
	return &UnexpectedTagError{
		ParseError: ParseError{
			Message: fmt.Sprintf("expected record 0x%02X, got 0x%02X", want, got),
			Offset:  offset,
		},
		Want: want,
		Got:  got,
	}
}

func newDuplicateColorError(color uint8, offset int) *DuplicateColorError {
	return &DuplicateColorError{
		ParseError: ParseError{
			Message: fmt.Sprintf("slot color %d used twice", color),
			Offset:  offset,
		},
		Color: color,
	}
}

func newUnrecognizedActionError(kind uint8, offset int) *UnrecognizedActionError {
	return &UnrecognizedActionError{
		ParseError: ParseError{
			Message: fmt.Sprintf("unknown action type 0x%02X", kind),
			Offset:  offset,
		},
		Kind: kind,
	}
}

func newCommandBlockLengthError(playerID uint8, declared, consumed, offset int) *CommandBlockLengthError {
	return &CommandBlockLengthError{
		ParseError: ParseError{
			Message: fmt.Sprintf("command block of player %d declares %d bytes, actions consumed %d", playerID, declared, consumed),
			Offset:  offset,
		},
		PlayerID: playerID,
		Declared: declared,
		Consumed: consumed,
	}
}

func newUnknownBlockError(tag uint8, offset int) *UnknownBlockError {
	return &UnknownBlockError{
		ParseError: ParseError{
			Message: fmt.Sprintf("unknown block 0x%02X", tag),
			Offset:  offset,
		},
		Tag: tag,
	}
}
