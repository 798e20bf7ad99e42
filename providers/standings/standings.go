// Package standings provides the configurator for the scored club
// standings section.
package standings

import (
	"github.com/kilianp07/sectionfeed/core/configurator"
	"github.com/kilianp07/sectionfeed/core/section"
)

// SectionID is the section id of the standings.
const SectionID = 321

// TopClubScore is the lowest score labelled as a top club.
const TopClubScore = 200

// Entry is one scored club. ID and Score must be present; zero is a valid
// value for both.
type Entry struct {
	ID    *int   `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Score *int   `json:"score" validate:"required,gte=0"`
}

// Label classifies a score.
func Label(score int) string {
	if score >= TopClubScore {
		return "Top Club"
	}
	return "Underdog"
}

// Project renders each entry as "<name> - <label>".
func Project(m section.Model[Entry]) section.DisplaySection {
	out := section.DisplaySection{
		Description: m.Name,
		Contents:    make([]section.DisplayItem, 0, len(m.Items)),
	}
	for _, e := range m.Items {
		out.Contents = append(out.Contents, section.DisplayItem{Content: e.Name + " - " + Label(*e.Score)})
	}
	return out
}

// New returns the standings configurator.
func New() *configurator.Typed[Entry] {
	return configurator.New[Entry](SectionID, "standings", Project)
}
