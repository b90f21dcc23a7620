// Package secrets implements the multi-pattern secret scanner that decides
// whether text may be admitted into the memory store unchanged, admitted
// with a warning, or blocked outright.
package secrets

import (
	"sort"
	"strings"
)

// Decision is the admission outcome of a scan.
type Decision string

const (
	Admit            Decision = "admit"
	AdmitWithWarning Decision = "admit_with_warning"
	Block            Decision = "block"
)

// MediumBlockThreshold is the default count of medium-confidence detections
// that triggers a block. Exposed so callers can override it from config.
const MediumBlockThreshold = 3

// Match is one retained, deduplicated detection.
type Match struct {
	Type       string
	Start      int
	End        int
	Confidence Confidence
}

// Detection is the caller-facing view of a Match, carrying a short redacted
// context snippet instead of raw offsets.
type Detection struct {
	Type       string     `json:"type"`
	Confidence Confidence `json:"confidence"`
	Context    string     `json:"context"`
}

// Result is the full outcome of a single scan, computed in one pass per the
// mutual-recursion-avoidance rule: sanitize is never derived by re-scanning.
type Result struct {
	Decision   Decision
	Sanitized  string
	Detections []Detection
	Reason     string
}

// Scanner holds a compiled pattern set and the medium-confidence block
// threshold.
type Scanner struct {
	patterns  []*Pattern
	threshold int
}

// New builds a Scanner with the built-in pattern set and the given
// medium-confidence block threshold (0 or negative falls back to the
// default of 3).
func New(mediumBlockThreshold int) *Scanner {
	if mediumBlockThreshold <= 0 {
		mediumBlockThreshold = MediumBlockThreshold
	}
	return &Scanner{patterns: builtinPatterns, threshold: mediumBlockThreshold}
}

// Scan runs every pattern against text, deduplicates overlapping matches,
// builds the sanitized replacement, and renders the admission decision. It
// is the single source of truth; Sanitize is a thin wrapper around it.
func (s *Scanner) Scan(text string) Result {
	var raw []Match
	for _, p := range s.patterns {
		locs := p.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			start, end := loc[0], loc[1]
			candidate := text[start:end]
			if !passesPostFilter(p.Type, candidate) {
				continue
			}
			raw = append(raw, Match{Type: p.Type, Start: start, End: end, Confidence: p.Confidence})
		}
	}

	sort.SliceStable(raw, func(i, j int) bool { return raw[i].Start < raw[j].Start })
	kept := dedupOverlaps(raw)

	sanitized := buildSanitized(text, kept)
	detections := buildDetections(sanitized, kept)

	decision, reason := decide(kept, s.threshold)

	return Result{
		Decision:   decision,
		Sanitized:  sanitized,
		Detections: detections,
		Reason:     reason,
	}
}

// Sanitize returns only the redacted text for text, computed via Scan.
func (s *Scanner) Sanitize(text string) string {
	return s.Scan(text).Sanitized
}

func passesPostFilter(typ, candidate string) bool {
	switch typ {
	case "credit_card":
		return luhnValid(candidate)
	case "generic_secret_assignment", "generic_upper_secret":
		return !isPlaceholder(valueAfterAssignment(candidate))
	default:
		return true
	}
}

func valueAfterAssignment(candidate string) string {
	for i := len(candidate) - 1; i >= 0; i-- {
		if candidate[i] == '=' || candidate[i] == ':' {
			return strings.Trim(candidate[i+1:], `"' `)
		}
	}
	return candidate
}

// dedupOverlaps retains the higher-confidence match when two detections
// overlap inclusively ([start,end] compared with both endpoints), keeping
// the first-seen match on a confidence tie. raw must already be sorted by
// Start.
func dedupOverlaps(raw []Match) []Match {
	var kept []Match
	for _, m := range raw {
		idx := -1
		for i := range kept {
			if overlapsInclusive(kept[i], m) {
				idx = i
				break
			}
		}
		if idx == -1 {
			kept = append(kept, m)
			continue
		}
		if rank(m.Confidence) > rank(kept[idx].Confidence) {
			kept[idx] = m
		}
		// tie or lower confidence: keep the existing (first-seen) match.
	}
	return kept
}

func overlapsInclusive(a, b Match) bool {
	aEnd := a.End - 1
	bEnd := b.End - 1
	return b.Start <= aEnd && bEnd >= a.Start
}

func rank(c Confidence) int {
	switch c {
	case High:
		return 3
	case Medium:
		return 2
	default:
		return 1
	}
}

func buildSanitized(text string, kept []Match) string {
	ordered := make([]Match, len(kept))
	copy(ordered, kept)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	result := text
	for _, m := range ordered {
		placeholder := "[REDACTED_" + strings.ToUpper(m.Type) + "]"
		result = result[:m.Start] + placeholder + result[m.End:]
	}
	return result
}

func buildDetections(sanitized string, kept []Match) []Detection {
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	detections := make([]Detection, 0, len(kept))
	shift := 0
	for _, m := range kept {
		placeholder := "[REDACTED_" + strings.ToUpper(m.Type) + "]"
		sanitizedStart := m.Start + shift
		context := contextWindow(sanitized, sanitizedStart, len(placeholder), 10)
		detections = append(detections, Detection{Type: m.Type, Confidence: m.Confidence, Context: context})
		shift += len(placeholder) - (m.End - m.Start)
	}
	return detections
}

func contextWindow(s string, start, length, radius int) string {
	lo := start - radius
	if lo < 0 {
		lo = 0
	}
	hi := start + length + radius
	if hi > len(s) {
		hi = len(s)
	}
	return s[lo:hi]
}

func decide(kept []Match, threshold int) (Decision, string) {
	var highTypes, mediumTypes []string
	for _, m := range kept {
		switch m.Confidence {
		case High:
			highTypes = append(highTypes, m.Type)
		case Medium:
			mediumTypes = append(mediumTypes, m.Type)
		}
	}

	if len(highTypes) > 0 {
		return Block, "high-confidence secrets detected: " + strings.Join(dedupStrings(highTypes), ", ")
	}
	if len(mediumTypes) >= threshold {
		return Block, "medium-confidence secrets detected: " + strings.Join(dedupStrings(mediumTypes), ", ")
	}
	if len(kept) > 0 {
		return AdmitWithWarning, "low-confidence or limited secret-like content detected"
	}
	return Admit, ""
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
