// Package clubs provides the configurator for the club list section.
package clubs

import (
	"github.com/kilianp07/sectionfeed/core/configurator"
	"github.com/kilianp07/sectionfeed/core/section"
)

// SectionID is the section id of the club list.
const SectionID = 123

// Club is one item of the club list. ID is a pointer so that an id of 0 is
// accepted while a missing id is not.
type Club struct {
	ID   *int   `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Project lists club names in feed order.
func Project(m section.Model[Club]) section.DisplaySection {
	out := section.DisplaySection{
		Description: m.Name,
		Contents:    make([]section.DisplayItem, 0, len(m.Items)),
	}
	for _, c := range m.Items {
		out.Contents = append(out.Contents, section.DisplayItem{Content: c.Name})
	}
	return out
}

// New returns the club list configurator.
func New() *configurator.Typed[Club] {
	return configurator.New[Club](SectionID, "clubs", Project)
}
