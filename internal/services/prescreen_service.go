package services

import (
	"regexp"
	"sync"
)

var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

// PrescreenService is the automated content pre-screen. A hit does not
// reject content; it flags it for the admin queue with a rationale.
type PrescreenService struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
	mu                  sync.RWMutex
}

func NewPrescreenService() *PrescreenService {
	ps := &PrescreenService{}
	ps.compilePatterns()
	return ps
}

func (ps *PrescreenService) compilePatterns() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.bannedWordRegexps = make([]*regexp.Regexp, 0, len(bannedWords))
	for _, word := range bannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			ps.bannedWordRegexps = append(ps.bannedWordRegexps, re)
		}
	}

	ps.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	ps.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	ps.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	ps.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	ps.allCapsPattern = regexp.MustCompile(`[A-Z]{5,}`)
}

// Screen checks text against the detectors. It returns ok=false and a
// stable rationale identifier on the first hit.
func (ps *PrescreenService) Screen(text string) (bool, string) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	for _, re := range ps.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if ps.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if ps.emailPattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ps.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if ps.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	capsMatches := ps.allCapsPattern.FindAllString(text, -1)
	if len(capsMatches) > 2 {
		return false, "excessive_caps"
	}
	return true, ""
}

// Rationale returns the human-readable explanation stored as the
// moderation reason when content is flagged.
func (ps *PrescreenService) Rationale(id string) string {
	messages := map[string]string{
		"inappropriate_language":   "Automated screen: contains inappropriate language.",
		"url_not_allowed":          "Automated screen: URLs and web links are not allowed.",
		"contact_info_not_allowed": "Automated screen: contact information is not allowed.",
		"spam_detected":            "Automated screen: content appears to be spam.",
		"excessive_caps":           "Automated screen: excessive capital letters.",
	}
	if msg, ok := messages[id]; ok {
		return msg
	}
	return "Automated screen: content does not meet the guidelines."
}
