package conference

import (
	"sort"
	"strings"
)

// Speaker is a person on the program. IDs are case-sensitive slugs by
// convention; case-variant duplicates are repaired by the identity
// reconciler, which keeps the lowercase form as canonical.
type Speaker struct {
	ID             string                  `json:"id,omitempty"`
	Name           string                  `json:"name"`
	Bio            string                  `json:"bio,omitempty"`
	ShortBio       string                  `json:"shortBio,omitempty"`
	Company        string                  `json:"company,omitempty"`
	Title          string                  `json:"title,omitempty"`
	Country        string                  `json:"country,omitempty"`
	Pronouns       string                  `json:"pronouns,omitempty"`
	Active         bool                    `json:"active"`
	Featured       bool                    `json:"featured"`
	Order          int                     `json:"order,omitempty"`
	Photo          string                  `json:"photo,omitempty"`
	PhotoURL       string                  `json:"photoUrl,omitempty"`
	CompanyLogo    string                  `json:"companyLogo,omitempty"`
	CompanyLogoURL string                  `json:"companyLogoUrl,omitempty"`
	Socials        []Social                `json:"socials,omitempty"`
	Badges         []Badge                 `json:"badges,omitempty"`
	History        map[string]YearSnapshot `json:"history,omitempty"`
}

// Social is a link to a speaker's profile on an external network.
type Social struct {
	Icon string `json:"icon,omitempty"`
	Link string `json:"link,omitempty"`
	Name string `json:"name,omitempty"`
}

// Badge is a decoration shown next to a speaker's name.
type Badge struct {
	Name string `json:"name,omitempty"`
	Link string `json:"link,omitempty"`
}

// YearSnapshot is the archived state of a speaker for one conference
// year: their bio, company, and job title at the time, plus the talks
// they gave.
type YearSnapshot struct {
	Bio     string `json:"bio"`
	Company string `json:"company"`
	Title   string `json:"title"`
	Talks   []Talk `json:"talks"`
}

// Talk is a historical talk record inside a year snapshot. SessionID is
// added post-hoc by the backfill matcher; once set it is stable and is
// never recomputed.
type Talk struct {
	Title        string   `json:"title"`
	Tags         []string `json:"tags"`
	Presentation string   `json:"presentation,omitempty"`
	VideoID      string   `json:"videoId,omitempty"`
	SessionID    string   `json:"sessionId,omitempty"`
}

// Slug returns the case-insensitive canonical form of a speaker ID.
func Slug(id string) string {
	return strings.ToLower(id)
}

// TalkSignature returns a deterministic signature for a talk list: the
// sorted titles joined with "|". Used by the cleanup reconciler to detect
// drift between history and the live schedule.
func TalkSignature(talks []Talk) string {
	titles := make([]string, len(talks))
	for i, t := range talks {
		titles[i] = t.Title
	}
	sort.Strings(titles)
	return strings.Join(titles, "|")
}

// HistoryYears returns the speaker's archived years in ascending order.
func (s *Speaker) HistoryYears() []string {
	years := make([]string, 0, len(s.History))
	for year := range s.History {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}
