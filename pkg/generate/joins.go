package generate

import (
	"github.com/openconf/stagehand/pkg/conference"
)

// placement is where a session sits on the schedule grid.
type placement struct {
	day          string
	dateReadable string
	track        string
	startTime    string
	endTime      string
}

// placements walks the schedule and records each scheduled session's
// slot. When a session appears in more than one slot the first one in
// iteration order (days date-descending, then timeslot, then track) wins.
func placements(days []conference.ScheduleDay) map[string]placement {
	placed := make(map[string]placement)
	for _, day := range days {
		for _, slot := range day.Timeslots {
			for ti, cell := range slot.Sessions {
				track := ""
				if ti < len(day.Tracks) {
					track = day.Tracks[ti].Title
				}
				for _, sid := range cell.Items {
					if _, ok := placed[sid]; ok {
						continue
					}
					placed[sid] = placement{
						day:          day.Date,
						dateReadable: day.DateReadable,
						track:        track,
						startTime:    slot.StartTime,
						endTime:      slot.EndTime,
					}
				}
			}
		}
	}
	return placed
}

// expandSession builds the generated record for one session: its ID, the
// computed main tag, referenced speakers expanded to embedded records
// with sessions nulled (dangling references become ID-only stubs,
// duplicates are dropped), and placement metadata when available.
func expandSession(id string, s conference.Session, speakers map[string]conference.Speaker, placed map[string]placement) conference.GeneratedSession {
	gen := conference.GeneratedSession{Session: s}
	gen.Session.ID = id
	gen.MainTag = s.MainTag()

	seen := make(map[string]struct{}, len(s.Speakers))
	for _, spid := range s.Speakers {
		if _, dup := seen[spid]; dup {
			continue
		}
		seen[spid] = struct{}{}
		if sp, ok := speakers[spid]; ok {
			gen.Speakers = append(gen.Speakers, sp.Embedded(spid))
		} else {
			gen.Speakers = append(gen.Speakers, conference.SpeakerStub(spid))
		}
	}

	if p, ok := placed[id]; ok {
		gen.Day = p.day
		gen.DateReadable = p.dateReadable
		gen.Track = p.track
		gen.StartTime = p.startTime
		gen.EndTime = p.endTime
	}
	return gen
}

// joinSessionsSpeakers is join strategy A: sessions crossed with speakers
// only. Sessions resolving zero speakers are discarded (the union pass
// re-adds them without session lists); speakers appear only when they
// resolved at least one session. placed may carry placement metadata when
// called from strategy B.
func joinSessionsSpeakers(snap Snapshot, placed map[string]placement, out *Output) {
	for _, id := range sortedIDs(snap.Sessions) {
		s := snap.Sessions[id]

		var resolved []string
		seen := make(map[string]struct{}, len(s.Speakers))
		for _, spid := range s.Speakers {
			if _, dup := seen[spid]; dup {
				continue
			}
			seen[spid] = struct{}{}
			if _, ok := snap.Speakers[spid]; ok {
				resolved = append(resolved, spid)
			}
		}
		if len(resolved) == 0 {
			continue
		}

		gen := expandSession(id, s, snap.Speakers, placed)
		out.Sessions[id] = gen

		for _, spid := range resolved {
			gsp, ok := out.Speakers[spid]
			if !ok {
				base := snap.Speakers[spid]
				base.ID = spid
				gsp = conference.GeneratedSpeaker{Speaker: base}
			}
			gsp.Sessions = append(gsp.Sessions, gen)
			out.Speakers[spid] = gsp
		}
	}
}

// joinSessionsSpeakersSchedule is join strategy B: strategy A plus
// placement, and the expanded schedule view. Sessions referenced by the
// schedule but missing from the sessions collection are skipped silently.
func joinSessionsSpeakersSchedule(snap Snapshot, placed map[string]placement, out *Output) {
	joinSessionsSpeakers(snap, placed, out)

	for _, day := range snap.Schedule {
		gday := conference.GeneratedDay{
			Date:         day.Date,
			DateReadable: day.DateReadable,
			Tracks:       day.Tracks,
		}
		for _, slot := range day.Timeslots {
			gslot := conference.GeneratedTimeslot{
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			}
			for _, cell := range slot.Sessions {
				gcell := conference.GeneratedSlot{Extend: cell.Extend, Items: []conference.GeneratedSession{}}
				for _, sid := range cell.Items {
					s, ok := snap.Sessions[sid]
					if !ok {
						continue
					}
					gen, ok := out.Sessions[sid]
					if !ok {
						// On the schedule but discarded by the join
						// (no resolved speakers).
						gen = expandSession(sid, s, snap.Speakers, placed)
					}
					gcell.Items = append(gcell.Items, gen)
				}
				gslot.Sessions = append(gslot.Sessions, gcell)
			}
			gday.Timeslots = append(gday.Timeslots, gslot)
		}
		out.Schedule[day.Date] = gday
	}
}
