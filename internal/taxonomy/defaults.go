package taxonomy

// Default row labels per (section, grouping key). These are static
// lookup tables; entity override rules take precedence over them at
// resolution time.
var defaultLabels = map[Section]map[string]string{
	SectionNonCurrentAssets: {
		"10": "Intangible Assets",
		"11": "Property, Plant and Equipment",
		"12": "Investment Property",
		"13": "Long-Term Financial Investments",
		"14": "Long-Term Receivables",
		"15": "Deferred Tax Assets",
	},
	SectionCurrentAssets: {
		"20": "Inventories of Materials",
		"21": "Work in Progress",
		"22": "Finished Goods",
		"23": "Merchandise",
		"24": "Trade Receivables",
		"25": "Short-Term Financial Investments",
		"26": "Receivables from Advances",
		"27": "Receivables from State Institutions",
		"28": "Miscellaneous Receivables",
		"29": "Cash and Cash Equivalents",
	},
	SectionLongTermSources: {
		"30": "Long-Term Borrowings",
		"31": "Bonds Issued",
		"32": "Long-Term Provisions",
		"33": "Long-Term Operating Liabilities",
		"34": "Deferred Tax Liabilities",
	},
	SectionEquity: {
		"40": "Called-Up Capital",
		"41": "Capital Surplus",
		"42": "Reserves",
		"43": "Revaluation Surplus",
		"44": "Retained Earnings",
		"45": "Profit for the Period",
	},
	SectionCurrentLiabilities: {
		"50": "Trade Payables",
		"51": "Short-Term Borrowings",
		"52": "Payables to Employees",
		"53": "Tax and Contribution Payables",
		"54": "Other Current Liabilities",
		"55": "Accrued Expenses",
	},
	SectionRevenue: {
		"60": "Sales Revenue from Goods",
		"61": "Sales Revenue from Services",
		"62": "Sales Deductions",
		"65": "Other Operating Income",
		"68": "Extraordinary Income",
	},
	SectionExpense: {
		"70": "Cost of Goods Sold",
		"71": "Costs of Materials and Energy",
		"72": "Employee Costs",
		"73": "Depreciation and External Services",
		"75": "Other Operating Expenses",
		"76": "Financing Expenses",
		"78": "Extraordinary Expenses",
		"79": "Income Tax Provision",
	},
}

// DefaultLabel looks up the static label for a grouping key within a
// section. ok is false when the key has no default and the caller must
// synthesize a label instead of dropping the row.
func DefaultLabel(section Section, key string) (string, bool) {
	labels, ok := defaultLabels[section]
	if !ok {
		return "", false
	}
	label, ok := labels[key]
	return label, ok
}

// DefaultKeys returns the grouping keys with a default label in the
// section, in undefined order.
func DefaultKeys(section Section) []string {
	labels := defaultLabels[section]
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	return keys
}

// Merge is one of the two fixed legacy presentation merges. Several
// adjacent grouping keys collapse into a single row under one label.
// These are intentional historical exceptions to the generic default
// tables and must not be generalized.
type Merge struct {
	Label string
	Keys  []string
}

var legacyMerges = map[Section]map[string]Merge{
	SectionCurrentAssets: {
		"26": {Label: "Other Receivables", Keys: []string{"26", "27", "28"}},
	},
	SectionEquity: {
		"40": {Label: "Paid-in Capital", Keys: []string{"40", "41"}},
	},
}

// LegacyMerge reports the merge anchored at (section, key), if any.
func LegacyMerge(section Section, key string) (Merge, bool) {
	merges, ok := legacyMerges[section]
	if !ok {
		return Merge{}, false
	}
	merge, ok := merges[key]
	return merge, ok
}

// MergeAnchor maps a grouping key that participates in a legacy merge
// to the anchor key of that merge. Non-anchor members must not emit a
// standalone row once the anchor row has captured them.
func MergeAnchor(section Section, key string) (string, bool) {
	merges, ok := legacyMerges[section]
	if !ok {
		return "", false
	}
	for anchor, merge := range merges {
		for _, member := range merge.Keys {
			if member == key {
				return anchor, true
			}
		}
	}
	return "", false
}
