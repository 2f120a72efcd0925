package services

import (
	"fmt"
	"strings"

	"github.com/nimasrn/chit-ledger/internal/model"
)

func errRequired(field string) error {
	return fmt.Errorf("%s is required", field)
}

func errMonth(month, duration int) error {
	return fmt.Errorf("month %d out of range 1..%d", month, duration)
}

func errStatus(status model.GroupStatus) error {
	return fmt.Errorf("unknown group status %q", status)
}

func errKind(kind model.LedgerKind) error {
	return fmt.Errorf("unknown ledger kind %q", kind)
}

// normalizeContact trims the fields that identify a person. Phone is the
// member's natural key, so every lookup and insert goes through here.
func normalizeContact(name, phone string) (string, string) {
	return strings.TrimSpace(name), strings.TrimSpace(phone)
}
