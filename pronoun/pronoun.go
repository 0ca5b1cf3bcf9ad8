// Package pronoun holds the canonical pronoun-family taxonomy and a detector
// that resolves free text to the first pronoun family it mentions.
package pronoun

import (
	"regexp"
	"sort"
	"strings"
)

// Family is one of the canonical gender/pronoun category tags, e.g. "he",
// "she", "they" or a neo-pronoun set like "xe".
type Family string

// Neutral is the gender-neutral baseline family excluded from the
// stereotype bias sum.
const Neutral Family = "they"

// NoPronouns is the surface-form sentinel returned when a text contains no
// known pronoun form. Absence of a match is a normal outcome, not an error.
const NoPronouns = "no pronouns"

// Forms holds the five inflected surface forms of one family, in the
// conventional order of an English pronoun declension table.
type Forms struct {
	Nominative            string
	Accusative            string
	PossessiveDependent   string
	PossessiveIndependent string
	Reflexive             string
}

// All returns the forms in declension order.
func (f Forms) All() []string {
	return []string{f.Nominative, f.Accusative, f.PossessiveDependent, f.PossessiveIndependent, f.Reflexive}
}

// taxonomy is the canonical table. It is read-only after package init;
// nothing mutates it during a run.
var taxonomy = map[Family]Forms{
	"he":   {"he", "him", "his", "his", "himself"},
	"she":  {"she", "her", "her", "hers", "herself"},
	"they": {"they", "them", "their", "theirs", "themself"},
	"thon": {"thon", "thon", "thons", "thons", "thonself"},
	"e":    {"e", "em", "es", "ems", "emself"},
	"ae":   {"aer", "aer", "aer", "aers", "aerself"},
	"co":   {"co", "co", "cos", "cos", "coself"},
	"vi":   {"vi", "vir", "vis", "virs", "virself"},
	"xe":   {"xe", "xem", "xyr", "xyrs", "xemself"},
	"ey":   {"ey", "em", "eir", "eirs", "emself"},
	"ze":   {"ze", "zir", "zir", "zirs", "zirself"},
}

var (
	formToFamily map[string]Family
	formPattern  *regexp.Regexp
)

func init() {
	// A handful of surface forms belong to more than one family ("em" and
	// "emself" appear in both "e" and "ey"). Insertion in sorted family
	// order with first-writer-wins makes the tie-break the alphabetically
	// first family, independent of map iteration order.
	formToFamily = make(map[string]Family)
	for _, fam := range Families() {
		for _, form := range taxonomy[fam].All() {
			if _, ok := formToFamily[form]; !ok {
				formToFamily[form] = fam
			}
		}
	}

	forms := make([]string, 0, len(formToFamily))
	for form := range formToFamily {
		forms = append(forms, form)
	}
	// Longest-first so alternation never settles for a prefix of a longer form.
	sort.Slice(forms, func(i, j int) bool {
		if len(forms[i]) != len(forms[j]) {
			return len(forms[i]) > len(forms[j])
		}
		return forms[i] < forms[j]
	})
	formPattern = regexp.MustCompile(`(?i)\b(?:` + strings.Join(forms, "|") + `)\b`)
}

// Families returns all family tags in alphabetical order.
func Families() []Family {
	fams := make([]Family, 0, len(taxonomy))
	for fam := range taxonomy {
		fams = append(fams, fam)
	}
	sort.Slice(fams, func(i, j int) bool { return fams[i] < fams[j] })
	return fams
}

// FormsOf returns the declension table of one family.
// The second return is false for unknown tags.
func FormsOf(fam Family) (Forms, bool) {
	f, ok := taxonomy[fam]
	return f, ok
}

// FamilyOf resolves a single surface form to its family.
func FamilyOf(form string) (Family, bool) {
	fam, ok := formToFamily[strings.ToLower(form)]
	return fam, ok
}

// Detect scans text for the first pronoun surface form, case-insensitively
// on word boundaries, and resolves it to its family. When no form matches
// it returns (NoPronouns, "", false).
func Detect(text string) (string, Family, bool) {
	match := formPattern.FindString(text)
	if match == "" {
		return NoPronouns, "", false
	}
	form := strings.ToLower(match)
	return form, formToFamily[form], true
}
