package domain

// TransferOp is the kind of cross-board transfer.
type TransferOp string

const (
	OpCopy TransferOp = "copy"
	OpMove TransferOp = "move"
)

// ParseTransferOp maps a raw operation string to a TransferOp.
func ParseTransferOp(raw string) (TransferOp, bool) {
	switch TransferOp(raw) {
	case OpCopy:
		return OpCopy, true
	case OpMove:
		return OpMove, true
	}
	return "", false
}
