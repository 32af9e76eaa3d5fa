package store

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/feedesk/core"
)

func shortID(prefix string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func NewPaymentID() string { return shortID("PAY") }

func NewFeeID() string { return shortID("F") }

// NewExpenseID returns the creation time in milliseconds, the shape of legacy expense ids.
func NewExpenseID() string {
	return strconv.FormatInt(core.NowFunc().UnixNano()/int64(1e6), 10)
}
