package valueobject

import (
	"fmt"
	"strings"
)

// FundingMode decides how creating an investment moves the investor's own balance.
type FundingMode string

const (
	// FundingModeCredit adds the invested amount to the investor's balance.
	FundingModeCredit FundingMode = "credit"
	// FundingModeDebit subtracts the invested amount from the investor's balance.
	FundingModeDebit FundingMode = "debit"
)

// ParseFundingMode parses a configured funding mode.
func ParseFundingMode(value string) (FundingMode, error) {
	switch FundingMode(strings.ToLower(strings.TrimSpace(value))) {
	case FundingModeCredit:
		return FundingModeCredit, nil
	case FundingModeDebit:
		return FundingModeDebit, nil
	default:
		return "", fmt.Errorf("unknown funding mode %q", value)
	}
}
