package transfer

import (
	"strings"

	"github.com/google/uuid" // Random reference IDs
)

// Reference ID prefixes
const (
	internalPrefix = "TXN" // Internal transfers
	externalPrefix = "EXT" // External transfers
)

// newReferenceID generates an opaque reference ID such as TXN-3F2A9C1B4D8E,
// grouping the ledger rows that make up one transfer
func newReferenceID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(hex[:12])
}
