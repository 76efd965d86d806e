package engine

import "errors"

// ErrTransactionOpen indicates an operation that needs a closed transaction,
// such as Undo or ClearAll, was called between Begin and End.
var ErrTransactionOpen = errors.New("transaction is open")
