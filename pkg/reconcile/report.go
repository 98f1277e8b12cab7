package reconcile

import (
	"fmt"
	"strings"
)

// MergeReport summarizes an identity merge run.
type MergeReport struct {
	DryRun bool
	Groups []MergeGroup

	SpeakersMerged  int
	AliasesDeleted  int
	SessionsUpdated int
}

// MergeGroup describes one merged duplicate set.
type MergeGroup struct {
	Canonical string
	Aliases   []string
	Years     []string
	Active    bool
	Featured  bool
	Sessions  []string
}

// Summary returns a human-readable report.
func (r *MergeReport) Summary() string {
	var b strings.Builder
	if len(r.Groups) == 0 {
		b.WriteString("No duplicate speakers found.\n")
		return b.String()
	}
	for _, g := range r.Groups {
		fmt.Fprintf(&b, "[merge] %s + %s -> %s\n",
			g.Canonical, strings.Join(g.Aliases, " + "), g.Canonical)
		years := "none"
		if len(g.Years) > 0 {
			years = strings.Join(g.Years, ", ")
		}
		fmt.Fprintf(&b, "  history years: %s\n", years)
		fmt.Fprintf(&b, "  active: %v, featured: %v\n", g.Active, g.Featured)
		for _, sid := range g.Sessions {
			fmt.Fprintf(&b, "  [session] %s: speakers rewritten\n", sid)
		}
	}
	fmt.Fprintf(&b, "Summary: %d merged, %d deleted, %d sessions updated\n",
		r.SpeakersMerged, r.AliasesDeleted, r.SessionsUpdated)
	if r.DryRun {
		b.WriteString("[dry-run] No changes written.\n")
	}
	return b.String()
}

// ArchiveReport summarizes an archival run.
type ArchiveReport struct {
	Year    string
	DryRun  bool
	Clear   bool
	Entries []ArchiveEntry

	Archived        int
	SessionsDeleted int
	ScheduleDeleted int
}

// ArchiveEntry describes one archived speaker.
type ArchiveEntry struct {
	SpeakerID string
	Name      string
	Talks     int
}

// Summary returns a human-readable report.
func (r *ArchiveReport) Summary() string {
	var b strings.Builder
	if r.Archived == 0 {
		b.WriteString("No active speakers to archive.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Archived %d speakers under year %q:\n", r.Archived, r.Year)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "  %s - %d talk(s)\n", e.Name, e.Talks)
	}
	if r.Clear {
		fmt.Fprintf(&b, "Cleared %d sessions, %d schedule days.\n",
			r.SessionsDeleted, r.ScheduleDeleted)
	}
	if r.DryRun {
		b.WriteString("[dry-run] No changes written.\n")
	}
	return b.String()
}

// CleanupReport summarizes a history cleanup run.
type CleanupReport struct {
	Year   string
	DryRun bool

	Removed   int
	Rebuilt   int
	Unchanged int

	RemovedSpeakers []string
	RebuiltSpeakers []string
}

// Summary returns a human-readable report.
func (r *CleanupReport) Summary() string {
	var b strings.Builder
	for _, id := range r.RemovedSpeakers {
		fmt.Fprintf(&b, "[remove]  %s - not on the schedule, removed history.%s\n", id, r.Year)
	}
	for _, id := range r.RebuiltSpeakers {
		fmt.Fprintf(&b, "[rebuild] %s - talks rebuilt from schedule\n", id)
	}
	fmt.Fprintf(&b, "Summary: %d removed, %d rebuilt, %d unchanged\n",
		r.Removed, r.Rebuilt, r.Unchanged)
	if r.DryRun {
		b.WriteString("[dry-run] No changes written.\n")
	}
	return b.String()
}

// BackfillReport summarizes a session-ID backfill run.
type BackfillReport struct {
	DryRun bool

	Matched         int
	Unmatched       int
	SpeakersUpdated int

	UnmatchedTalks []UnmatchedTalk
}

// UnmatchedTalk is a historical talk the matcher could not resolve.
type UnmatchedTalk struct {
	SpeakerID string
	Year      string
	Title     string
}

// Summary returns a human-readable report.
func (r *BackfillReport) Summary() string {
	var b strings.Builder
	for _, t := range r.UnmatchedTalks {
		fmt.Fprintf(&b, "[no match] %s / %s / %q\n", t.SpeakerID, t.Year, t.Title)
	}
	fmt.Fprintf(&b, "Summary: %d matched, %d unmatched, %d speakers updated\n",
		r.Matched, r.Unmatched, r.SpeakersUpdated)
	if r.DryRun {
		b.WriteString("[dry-run] No changes written.\n")
	}
	return b.String()
}

// ActivateReport summarizes a speaker activation run.
type ActivateReport struct {
	DryRun bool

	Activated     int
	AlreadyActive int
	Missing       int
}

// Summary returns a human-readable report.
func (r *ActivateReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary: %d activated, %d already active, %d missing\n",
		r.Activated, r.AlreadyActive, r.Missing)
	if r.DryRun {
		b.WriteString("[dry-run] No changes written.\n")
	}
	return b.String()
}
