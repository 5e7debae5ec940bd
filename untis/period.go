package untis

import (
	"strconv"
	"strings"
	"time"
)

// Default display colors applied when a server omits color information.
const (
	DefaultForeColor = "#000000"
	DefaultBackColor = "#FFFFFF"
)

// ElementType identifies what a period element refers to. The numeric values
// are the WebUntis wire codes shared by every dialect.
type ElementType int

const (
	ElementClass   ElementType = 1
	ElementTeacher ElementType = 2
	ElementSubject ElementType = 3
	ElementRoom    ElementType = 4
	ElementStudent ElementType = 5
)

// String returns the lower-case dialect-neutral name of the element type.
func (t ElementType) String() string {
	switch t {
	case ElementClass:
		return "class"
	case ElementTeacher:
		return "teacher"
	case ElementSubject:
		return "subject"
	case ElementRoom:
		return "room"
	case ElementStudent:
		return "student"
	default:
		return "unknown"
	}
}

// WireName returns the upper-case name the modern dialects put on the wire.
func (t ElementType) WireName() string {
	return strings.ToUpper(t.String())
}

// ParseElementType maps any of the names or numeric codes servers use onto
// the canonical type. It accepts the wire names case-insensitively, the German
// KLASSE alias, and digit strings.
func ParseElementType(s string) (ElementType, bool) {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n >= int(ElementClass) && n <= int(ElementStudent) {
			return ElementType(n), true
		}
		return 0, false
	}
	switch strings.ToUpper(trimmed) {
	case "CLASS", "KLASSE":
		return ElementClass, true
	case "TEACHER":
		return ElementTeacher, true
	case "SUBJECT":
		return ElementSubject, true
	case "ROOM":
		return ElementRoom, true
	case "STUDENT":
		return ElementStudent, true
	}
	return 0, false
}

// PeriodElement is one class, teacher, subject, or room attached to a period.
// OrgID carries the originally scheduled element when a substitution moved
// the period; it is zero otherwise.
type PeriodElement struct {
	Type     ElementType `json:"type"`
	ID       int64       `json:"id"`
	OrgID    int64       `json:"orgId,omitempty"`
	Name     string      `json:"name,omitempty"`
	LongName string      `json:"longName,omitempty"`
}

// PeriodText carries the three display strings a period may have. All are
// optional and empty when the server sent nothing.
type PeriodText struct {
	Lesson       string `json:"lesson,omitempty"`
	Substitution string `json:"substitution,omitempty"`
	Info         string `json:"info,omitempty"`
}

// Period state flags as reported by modern servers.
const (
	StateRegular             = "REGULAR"
	StateIrregular           = "IRREGULAR"
	StateCancelled           = "CANCELLED"
	StateExam                = "EXAM"
	StateRoomSubstitution    = "ROOMSUBSTITUTION"
	StateTeacherSubstitution = "TEACHERSUBSTITUTION"
	StateSubstitution        = "SUBSTITUTION"
)

// Period is the canonical lesson slot. Every field is populated: when the
// source payload lacked data the normalization layer fills the documented
// defaults instead, so callers never null-check core fields.
type Period struct {
	ID            int64           `json:"id"`
	LessonID      int64           `json:"lessonId"`
	StartDateTime time.Time       `json:"startDateTime"`
	EndDateTime   time.Time       `json:"endDateTime"`
	ForeColor     string          `json:"foreColor"`
	BackColor     string          `json:"backColor"`
	Text          PeriodText      `json:"text"`
	Elements      []PeriodElement `json:"elements"`
	Is            []string        `json:"is"`
	Can           []string        `json:"can"`
}

// ElementsOfType returns the period elements matching t, preserving order.
func (p Period) ElementsOfType(t ElementType) []PeriodElement {
	var out []PeriodElement
	for _, el := range p.Elements {
		if el.Type == t {
			out = append(out, el)
		}
	}
	return out
}

// HasState reports whether the period carries the given state flag.
func (p Period) HasState(state string) bool {
	for _, s := range p.Is {
		if s == state {
			return true
		}
	}
	return false
}

// Cancelled reports whether the period is marked cancelled.
func (p Period) Cancelled() bool {
	return p.HasState(StateCancelled)
}

// Duration returns the length of the period's time span.
func (p Period) Duration() time.Duration {
	return p.EndDateTime.Sub(p.StartDateTime)
}

// Timetable is the canonical result of one timetable fetch: the displayed
// range plus the periods in the order the server delivered them.
type Timetable struct {
	Range   DateRange `json:"range"`
	Periods []Period  `json:"periods"`
}
