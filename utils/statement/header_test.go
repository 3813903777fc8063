package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBankNamePrefersLongerMatch(t *testing.T) {
	lines := []string{"JPMorgan Chase Bank, N.A.", "Account statement"}

	assert.Equal(t, "JPMorgan Chase", ExtractBankName(lines))
}

func TestExtractBankNameGenericPattern(t *testing.T) {
	assert.Equal(t, "First National Bank", ExtractBankName([]string{"First National Bank", "Member FDIC"}))
}

func TestExtractBankNameUnknown(t *testing.T) {
	assert.Empty(t, ExtractBankName([]string{"Monthly activity summary"}))
}

func TestExtractAccountNumberLabelled(t *testing.T) {
	lines := []string{"Account Number: 000123456789"}

	assert.Equal(t, "****6789", ExtractAccountNumber(lines))
}

func TestExtractAccountNumberSkipsRoutingAndCards(t *testing.T) {
	lines := []string{
		"Routing Number: 021000021",
		"Debit card ending 4242111122223333",
		"Account Number: 9876543210",
	}

	assert.Equal(t, "****3210", ExtractAccountNumber(lines))
}

func TestExtractAccountNumberMasked(t *testing.T) {
	lines := []string{"Acct No: ****4821"}

	assert.Equal(t, "****4821", ExtractAccountNumber(lines))
}

func TestExtractBusinessNameLabelled(t *testing.T) {
	lines := []string{"Prepared for: Acme Widgets LLC", "123 Main St"}

	assert.Equal(t, "Acme Widgets LLC", ExtractBusinessName(lines, "stmt.pdf"))
}

func TestExtractBusinessNameCorpSuffixLine(t *testing.T) {
	lines := []string{"Statement of account", "Bluebird Logistics LLC"}

	assert.Equal(t, "Bluebird Logistics LLC", ExtractBusinessName(lines, "stmt.pdf"))
}

func TestBusinessFromFilename(t *testing.T) {
	assert.Equal(t, "Acme Widgets", BusinessFromFilename("acme_widgets_jan_2024_statement.pdf"))
	assert.Empty(t, BusinessFromFilename(""))
	assert.Empty(t, BusinessFromFilename("2024-01.pdf"))
}
