// Package entities contains the core domain objects for the treehouse application
package entities

import (
	"fmt"
	"strings"
)

// ActionKind identifies what happens when a visitor shows up at the treehouse
type ActionKind int

const (
	// Accept lets the visitor in
	Accept ActionKind = iota
	// AcceptWithNote lets the visitor in and reminds the host of a note
	AcceptWithNote
	// Refuse keeps the visitor out
	Refuse
	// Probation marks the visitor as a probationary member
	Probation
)

var actionKindNames = map[ActionKind]string{
	Accept:         "Accept",
	AcceptWithNote: "AcceptWithNote",
	Refuse:         "Refuse",
	Probation:      "Probation",
}

// String returns the name of the action kind
func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// ParseActionKind converts a stored action name back into an ActionKind
func ParseActionKind(name string) (ActionKind, error) {
	for kind, kindName := range actionKindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown visitor action %q", name)
}

// VisitorAction is the action taken for a visitor. Note is only meaningful
// for AcceptWithNote.
type VisitorAction struct {
	Kind ActionKind
	Note string
}

// AcceptAction lets the visitor in
func AcceptAction() VisitorAction {
	return VisitorAction{Kind: Accept}
}

// AcceptWithNoteAction lets the visitor in and carries a note for the host
func AcceptWithNoteAction(note string) VisitorAction {
	return VisitorAction{Kind: AcceptWithNote, Note: note}
}

// RefuseAction keeps the visitor out
func RefuseAction() VisitorAction {
	return VisitorAction{Kind: Refuse}
}

// ProbationAction marks the visitor as a probationary member
func ProbationAction() VisitorAction {
	return VisitorAction{Kind: Probation}
}

// Visitor represents a single entry on the treehouse visitor list
type Visitor struct {
	ID       int64
	Name     string // Lowercased visitor name
	Greeting string // Printed before the action message
	Action   VisitorAction
	Age      int8
}

// NewVisitor creates a visitor, normalising the name to lower case
func NewVisitor(name, greeting string, action VisitorAction, age int8) Visitor {
	return Visitor{
		Name:     strings.ToLower(name),
		Greeting: greeting,
		Action:   action,
		Age:      age,
	}
}

// FormatVisitorList renders the visitor list as an indented multi-line dump
func FormatVisitorList(visitors []Visitor) string {
	if len(visitors) == 0 {
		return "[]"
	}

	var result strings.Builder
	result.WriteString("[\n")
	for _, v := range visitors {
		result.WriteString("    Visitor {\n")
		fmt.Fprintf(&result, "        name: %q,\n", v.Name)
		result.WriteString("        action: ")
		if v.Action.Kind == AcceptWithNote {
			fmt.Fprintf(&result, "%s {\n            note: %q,\n        },\n", v.Action.Kind, v.Action.Note)
		} else {
			fmt.Fprintf(&result, "%s,\n", v.Action.Kind)
		}
		fmt.Fprintf(&result, "        age: %d,\n", v.Age)
		fmt.Fprintf(&result, "        greeting: %q,\n", v.Greeting)
		result.WriteString("    },\n")
	}
	result.WriteString("]")
	return result.String()
}
