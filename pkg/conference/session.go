package conference

// Session is a talk, workshop, or other program entry. The speakers field
// holds speaker document IDs, not embedded records; resolution happens in
// the generated views. Dangling references are tolerated and resolve to
// ID-only stubs.
type Session struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Speakers     []string `json:"speakers,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Complexity   string   `json:"complexity,omitempty"`
	Language     string   `json:"language,omitempty"`
	Presentation string   `json:"presentation,omitempty"`
	VideoID      string   `json:"videoId,omitempty"`
	Image        string   `json:"image,omitempty"`
	Icon         string   `json:"icon,omitempty"`
	Extend       int      `json:"extend,omitempty"`
}

// tagPriority is the preference order used to pick a session's main tag.
var tagPriority = []string{
	"keynote",
	"workshop",
	"codelab",
	"panel",
	"lightning talk",
}

// MainTag picks the most representative tag: the first tag matching the
// priority list, else the session's first tag. Empty when untagged.
func (s *Session) MainTag() string {
	if len(s.Tags) == 0 {
		return ""
	}
	for _, want := range tagPriority {
		for _, tag := range s.Tags {
			if tag == want {
				return tag
			}
		}
	}
	return s.Tags[0]
}

// Talk converts the session into a historical talk record for a speaker's
// year snapshot. The session ID is left for the backfill matcher.
func (s *Session) Talk() Talk {
	talk := Talk{
		Title: s.Title,
		Tags:  s.Tags,
	}
	if talk.Tags == nil {
		talk.Tags = []string{}
	}
	talk.Presentation = s.Presentation
	talk.VideoID = s.VideoID
	return talk
}
