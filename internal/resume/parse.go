package resume

import (
	"regexp"
	"sort"
	"strings"
)

var (
	nonSkillChars = regexp.MustCompile(`[^a-z0-9\s\-.+#]`)
	wordSplit     = regexp.MustCompile(`[\s,;|/\\]+`)
	nameLine      = regexp.MustCompile(`^[A-Za-z\s.\-]+$`)
	emailRe       = regexp.MustCompile(`[\w.\-+]+@[\w.\-]+\.\w+`)
	phoneRe       = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)
	githubRe      = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[\w\-]+`)
	linkedinRe    = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[\w\-]+`)
)

var platformRes = map[string]*regexp.Regexp{
	"leetcode":      regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?leetcode\.com/[\w\-]+`),
	"hackerrank":    regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?hackerrank\.com/[\w\-]+`),
	"codeforces":    regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?codeforces\.com/profile/[\w\-]+`),
	"codechef":      regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?codechef\.com/users/[\w\-]+`),
	"hackerearth":   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?hackerearth\.com/@[\w\-]+`),
	"geeksforgeeks": regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?geeksforgeeks\.org/user/[\w\-]+`),
	"kaggle":        regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?kaggle\.com/[\w\-]+`),
	"stackoverflow": regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?stackoverflow\.com/users/\d+/[\w\-]+`),
}

const minPhoneDigits = 9

// Parse extracts everything it can from resume text. Missing fields stay
// empty; the name falls back to "Unknown Candidate".
func Parse(text string) Profile {
	return Profile{
		Name:            Name(text),
		Email:           emailRe.FindString(text),
		Phone:           Phone(text),
		Skills:          Skills(text),
		GithubURL:       withScheme(githubRe.FindString(text)),
		LinkedinURL:     withScheme(linkedinRe.FindString(text)),
		CodingPlatforms: Platforms(text),
		Text:            text,
	}
}

// Skills returns the sorted, de-duplicated vocabulary terms found in text.
func Skills(text string) []string {
	norm := nonSkillChars.ReplaceAllString(strings.ToLower(text), " ")
	words := map[string]struct{}{}
	for _, w := range wordSplit.Split(norm, -1) {
		if w == "" {
			continue
		}
		words[w] = struct{}{}
		if t := strings.TrimRight(w, "."); t != w && t != "" {
			words[t] = struct{}{}
		}
	}

	found := []string{}
	for _, skill := range vocabulary {
		if _, ok := words[skill]; ok {
			found = append(found, skill)
			continue
		}
		if strings.Contains(skill, "-") {
			if strings.Contains(norm, strings.ReplaceAll(skill, "-", " ")) ||
				strings.Contains(norm, strings.ReplaceAll(skill, "-", "")) {
				found = append(found, skill)
				continue
			}
		}
		if strings.Contains(skill, ".") && strings.Contains(norm, strings.ReplaceAll(skill, ".", "")) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

// Name takes the first short letters-only line among the first five.
func Name(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" && len(l) < 50 && nameLine.MatchString(l) {
			return l
		}
	}
	return "Unknown Candidate"
}

// Phone returns the first number-like run with enough digits to be a phone.
func Phone(text string) string {
	for _, m := range phoneRe.FindAllString(text, -1) {
		n := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				n++
			}
		}
		if n >= minPhoneDigits {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func Platforms(text string) map[string]string {
	out := map[string]string{}
	for name, re := range platformRes {
		if m := re.FindString(text); m != "" {
			out[name] = withScheme(m)
		}
	}
	return out
}

func withScheme(u string) string {
	if u == "" || strings.HasPrefix(strings.ToLower(u), "http") {
		return u
	}
	return "https://" + u
}
