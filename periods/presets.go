package periods

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// PRESETS - Named period lists requested by downstream reports
// =============================================================================

const (
	PresetStandard    = "standard"
	PresetPerformance = "performance"
	PresetCalendar    = "calendar"
	PresetFiscal      = "fiscal"
)

var presets = map[string][]string{
	PresetStandard: {
		"MTD", "QTD", "YTD", "3MT", "12MT",
		"3YA", "5YA", "10YA", "15YA", "30YA",
		"FYTD", "ITD", "ITDA",
	},
	PresetPerformance: performanceCodes(),
	PresetCalendar: {
		"MTD", "QTD", "YTD", "MRM", "MRQ", "MRY",
		"PM1", "PM2", "PM3", "PQ1", "PQ2", "PQ3", "PQ4", "PY1", "PY2", "PY3",
	},
	PresetFiscal: {
		"FYTD", "MRFQ", "PFQ1", "PFQ2", "PFQ3", "PFQ4",
		"PFY1", "PFY2", "PFY3", "PFY4", "PFY5",
	},
}

// multiYear are the horizons offered for both the YC and YA families.
var multiYear = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 15, 20, 25, 30}

func performanceCodes() []string {
	codes := []string{"QTD", "YTD"}
	codes = append(codes, numbered("PQ", 1, 4)...)
	codes = append(codes, numbered("PY", 1, 10)...)
	codes = append(codes, "1MT", "3MT", "6MT", "9MT", "12MT")
	for _, n := range multiYear {
		codes = append(codes, strconv.Itoa(n)+"YC")
	}
	codes = append(codes, "ITD")
	for _, n := range multiYear {
		codes = append(codes, strconv.Itoa(n)+"YA")
	}
	codes = append(codes, "ITDA", "FYTD")
	codes = append(codes, numbered("PFQ", 1, 4)...)
	codes = append(codes, numbered("PFY", 1, 10)...)
	return codes
}

func numbered(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, prefix+strconv.Itoa(i))
	}
	return out
}

// PresetNames lists the registered presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetCodes returns a copy of the codes in the named preset.
func PresetCodes(name string) ([]string, error) {
	codes, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	out := make([]string, len(codes))
	copy(out, codes)
	return out, nil
}

// ParseCodeList splits a comma-separated code list, normalizing each code and
// dropping empty entries. Order and repeats are kept.
func ParseCodeList(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		if code := NormalizeCode(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
