// Package taxonomy maps ledger account codes to grouping keys and
// statement sections. The mapping from a code's leading digit to a
// section is fixed and never overridden.
package taxonomy

import "strings"

// Section identifies a statement area an account code belongs to.
type Section string

const (
	SectionNonCurrentAssets   Section = "NON_CURRENT_ASSETS"
	SectionCurrentAssets      Section = "CURRENT_ASSETS"
	SectionLongTermSources    Section = "LONG_TERM_SOURCES"
	SectionEquity             Section = "EQUITY"
	SectionCurrentLiabilities Section = "CURRENT_LIABILITIES"
	SectionRevenue            Section = "REVENUE"
	SectionExpense            Section = "EXPENSE"
)

// Context selects which digit range a classification runs against.
type Context int

const (
	ContextBalanceSheet Context = iota
	ContextIncomeStatement
)

// FirstSegment returns the portion of a code before the first dot, or
// the whole code when it has no dots.
func FirstSegment(code string) string {
	if idx := strings.Index(code, "."); idx >= 0 {
		return code[:idx]
	}
	return code
}

// GroupingKey derives the classification key (NOT code) for an account
// code: the first two characters of its first dot-segment. Segments
// shorter than two characters are returned whole; an empty code yields
// an empty key.
func GroupingKey(code string) string {
	segment := FirstSegment(code)
	if len(segment) < 2 {
		return segment
	}
	return segment[:2]
}

// MatchPrefix compares a classification prefix against the code's
// first dot-segment. The segment must be at least as long as the
// prefix: a 2-character prefix never matches a 1-character code.
func MatchPrefix(prefix, code string) bool {
	segment := FirstSegment(code)
	return prefix != "" && len(segment) >= len(prefix) && strings.HasPrefix(segment, prefix)
}

// SectionFor resolves the section for an account code in the given
// context. Balance-sheet codes outside digits 1-5 report ok=false and
// must be rejected by the caller; income-statement codes outside 6-7
// also report ok=false but are passed through unmapped so custom
// groupings can still reference them.
func SectionFor(code string, ctx Context) (Section, bool) {
	segment := FirstSegment(code)
	if segment == "" {
		return "", false
	}
	switch ctx {
	case ContextBalanceSheet:
		switch segment[0] {
		case '1':
			return SectionNonCurrentAssets, true
		case '2':
			return SectionCurrentAssets, true
		case '3':
			return SectionLongTermSources, true
		case '4':
			return SectionEquity, true
		case '5':
			return SectionCurrentLiabilities, true
		}
	case ContextIncomeStatement:
		switch segment[0] {
		case '6':
			return SectionRevenue, true
		case '7':
			return SectionExpense, true
		}
	}
	return "", false
}

// Digit returns the leading account-code digit owned by the section.
func (s Section) Digit() byte {
	switch s {
	case SectionNonCurrentAssets:
		return '1'
	case SectionCurrentAssets:
		return '2'
	case SectionLongTermSources:
		return '3'
	case SectionEquity:
		return '4'
	case SectionCurrentLiabilities:
		return '5'
	case SectionRevenue:
		return '6'
	case SectionExpense:
		return '7'
	}
	return 0
}

// Owns reports whether the account code falls in the section's digit range.
func (s Section) Owns(code string) bool {
	segment := FirstSegment(code)
	return segment != "" && segment[0] == s.Digit()
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	return s.Digit() != 0
}

// Subsection describes one balance-sheet presentation block.
type Subsection struct {
	Section Section
	Label   string
	Assets  bool
}

// BalanceSheetSubsections returns the fixed presentation order of the
// balance sheet: two asset blocks followed by three source blocks.
func BalanceSheetSubsections() []Subsection {
	return []Subsection{
		{Section: SectionNonCurrentAssets, Label: "Non-Current Assets", Assets: true},
		{Section: SectionCurrentAssets, Label: "Current Assets", Assets: true},
		{Section: SectionLongTermSources, Label: "Long-Term Sources", Assets: false},
		{Section: SectionEquity, Label: "Equity", Assets: false},
		{Section: SectionCurrentLiabilities, Label: "Current Liabilities", Assets: false},
	}
}
