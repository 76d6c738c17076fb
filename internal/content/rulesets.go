package content

import (
	"regexp"

	"github.com/starford/docsaudit/internal/rules"
)

// Rule IDs of the writing, technical and inclusion rule sets.
const (
	RulePassiveVoice   = "passive-voice"
	RuleWeakPhrase     = "weak-phrase"
	RuleLongSentence   = "long-sentence"
	RuleTerminology    = "terminology"
	RuleOutdated       = "outdated-reference"
	RuleInclusive      = "inclusive-language"
	RuleLeadershipName = "leadership-principle"
)

// passiveScanLines limits passive voice hints to the opening of a document.
const passiveScanLines = 19

// WritingRules flag style problems line by line.
var WritingRules = rules.Set{
	rules.Line(RulePassiveVoice, `(?i)\b(?:is being|was being|will be|has been|have been)\b`,
		"Consider using active voice instead of passive").Until(passiveScanLines),
	rules.Line(RuleWeakPhrase, `(?i)\bit should be noted\b`, "Avoid weak phrase '{lower}'"),
	rules.Line(RuleWeakPhrase, `(?i)\bit is important to note\b`, "Avoid weak phrase '{lower}'"),
	rules.Line(RuleWeakPhrase, `(?i)\bplease note\b`, "Avoid weak phrase '{lower}'"),
	rules.Line(RuleWeakPhrase, `(?i)\bobviously\b`, "Avoid weak phrase '{lower}'"),
	rules.Line(RuleWeakPhrase, `(?i)\bclearly\b`, "Avoid weak phrase '{lower}'"),
	rules.Line(RuleLongSentence, `^\s*(?:\S+\s+){30}\S+`, "Consider breaking down long sentence for readability"),
}

type term struct {
	correct    string
	variations []string
}

var terminology = []term{
	{"L6", []string{"l6", "level 6", "level-6"}},
	{"L7", []string{"l7", "level 7", "level-7"}},
	{"Amazon", []string{"amazon.com", "AMZN"}},
	{"API", []string{"api", "Api"}},
	{"AWS", []string{"aws", "Aws"}},
}

// TerminologyRules flag a variant spelling on lines that never use the
// preferred term.
var TerminologyRules = func() rules.Set {
	var s rules.Set
	for _, t := range terminology {
		for _, v := range t.variations {
			s = append(s, rules.Line(RuleTerminology, `\b`+regexp.QuoteMeta(v)+`\b`,
				"Use consistent terminology '"+t.correct+"' instead of '{match}'").
				Except(regexp.QuoteMeta(t.correct)))
		}
	}
	return s
}()

// TechnicalRules flag references to outdated tools, once per document.
var TechnicalRules = rules.Set{
	rules.Document(RuleOutdated, `(?i)python\s+[12]\.`, "Potentially outdated technical reference: '{match}'"),
	rules.Document(RuleOutdated, `(?i)node\s+[0-9]\.`, "Potentially outdated technical reference: '{match}'"),
	rules.Document(RuleOutdated, `(?i)java\s+[1-7]\.`, "Potentially outdated technical reference: '{match}'"),
	rules.Document(RuleOutdated, `(?i)aws\s+cli\s+v1`, "Potentially outdated technical reference: '{match}'"),
}

// InclusiveRules suggest alternatives for exclusionary terms, once per
// document.
var InclusiveRules = rules.Set{
	rules.Document(RuleInclusive, `(?i)\bguys\b`, "Consider replacing '{lower}' with everyone/folks/team"),
	rules.Document(RuleInclusive, `(?i)\bwhitelist`, "Consider replacing '{lower}' with allowlist"),
	rules.Document(RuleInclusive, `(?i)\bblacklist`, "Consider replacing '{lower}' with blocklist"),
	rules.Document(RuleInclusive, `(?i)\bmaster/slave\b`, "Consider replacing '{lower}' with primary/replica"),
	rules.Document(RuleInclusive, `(?i)\bsanity check`, "Consider replacing '{lower}' with validation/verification"),
	rules.Document(RuleInclusive, `(?i)\bdummy\b`, "Consider replacing '{lower}' with placeholder/sample"),
	rules.Document(RuleInclusive, `(?i)\bcrazy\b`, "Consider replacing '{lower}' with unexpected/unusual"),
	rules.Document(RuleInclusive, `(?i)\binsane\b`, "Consider replacing '{lower}' with extreme/significant"),
}

// LeadershipRules flag misnamed Amazon Leadership Principles.
var LeadershipRules = rules.Set{
	rules.Document(RuleLeadershipName, `(?i)\bcustomer first\b`, "Potentially incorrect Leadership Principle reference: '{lower}'"),
	rules.Document(RuleLeadershipName, `(?i)\btake ownership\b`, "Potentially incorrect Leadership Principle reference: '{lower}'"),
	rules.Document(RuleLeadershipName, `(?i)\bbe curious\b`, "Potentially incorrect Leadership Principle reference: '{lower}'").
		ExceptLine(`(?i)learn and be curious`),
	rules.Document(RuleLeadershipName, `(?i)\bhire the best\b`, "Potentially incorrect Leadership Principle reference: '{lower}'"),
	rules.Document(RuleLeadershipName, `(?i)\bhigh standards\b`, "Potentially incorrect Leadership Principle reference: '{lower}'"),
	rules.Document(RuleLeadershipName, `(?i)\bdisagree and commit\b`, "Potentially incorrect Leadership Principle reference: '{lower}'").
		ExceptLine(`(?i)backbone`),
	rules.Document(RuleLeadershipName, `(?i)\bget results\b`, "Potentially incorrect Leadership Principle reference: '{lower}'"),
}
