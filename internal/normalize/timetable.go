package normalize

import (
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/PythonTilk/untisgo/untis"
)

// timeNow is stubbed by tests that pin the placeholder time span.
var timeNow = time.Now

// Timetable converts one successful timetable payload into the canonical
// form. The display range is the one the caller requested; servers do not
// reliably echo it back.
func Timetable(raw json.RawMessage, display untis.DateRange) untis.Timetable {
	if periods, ok := strictPeriodList(raw); ok {
		return untis.Timetable{Range: display, Periods: periods}
	}

	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return untis.Timetable{Range: display, Periods: []untis.Period{}}
	}

	records := periodRecords(loose)
	periods := make([]untis.Period, 0, len(records))
	for i, rec := range records {
		if p, ok := reconstructPeriod(rec, i); ok {
			periods = append(periods, p)
		}
	}
	return untis.Timetable{Range: display, Periods: periods}
}

// Substitutions converts a substitution payload into canonical periods. The
// records are period-shaped with a kind discriminator, which maps onto the
// state flags so callers read one vocabulary for changes from every source.
func Substitutions(raw json.RawMessage, display untis.DateRange) untis.Timetable {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return untis.Timetable{Range: display, Periods: []untis.Period{}}
	}

	records := recordsIn(loose, "substitutions")
	if records == nil {
		records = periodRecords(loose)
	}
	periods := make([]untis.Period, 0, len(records))
	for i, rec := range records {
		p, ok := reconstructPeriod(rec, i)
		if !ok {
			continue
		}
		if m, ok := object(rec); ok {
			if kind, ok := scalarString(m, "type"); ok {
				if state := substitutionState(kind); !p.HasState(state) {
					p.Is = append(p.Is, state)
				}
			}
		}
		periods = append(periods, p)
	}
	return untis.Timetable{Range: display, Periods: periods}
}

// substitutionState maps the legacy substitution kind onto the canonical
// state names. Unknown kinds still count as a generic substitution.
func substitutionState(kind string) string {
	switch strings.ToLower(kind) {
	case "cancel", "free":
		return untis.StateCancelled
	case "rmchg":
		return untis.StateRoomSubstitution
	case "subst":
		return untis.StateTeacherSubstitution
	case "exam":
		return untis.StateExam
	default:
		return untis.StateSubstitution
	}
}

// Strict wire shape of modern timetable periods. Timestamps stay strings
// because servers omit seconds, which the stricter time.Time decoding would
// reject.
type strictPeriod struct {
	ID            int64           `json:"id"`
	LessonID      int64           `json:"lessonId"`
	StartDateTime string          `json:"startDateTime"`
	EndDateTime   string          `json:"endDateTime"`
	ForeColor     string          `json:"foreColor"`
	BackColor     string          `json:"backColor"`
	Text          strictText      `json:"text"`
	Elements      []strictElement `json:"elements"`
	Is            []string        `json:"is"`
	Can           []string        `json:"can"`
}

type strictText struct {
	Lesson       string `json:"lesson"`
	Substitution string `json:"substitution"`
	Info         string `json:"info"`
}

type strictElement struct {
	Type     any    `json:"type"`
	ID       int64  `json:"id"`
	OrgID    int64  `json:"orgId"`
	Name     string `json:"name"`
	LongName string `json:"longName"`
}

// strictPeriodList attempts the strict tier: the modern envelope or a bare
// array of modern periods. It succeeds only when every record carries an id
// and two parseable timestamps; one incomplete record sends the whole
// payload to structural extraction.
func strictPeriodList(raw json.RawMessage) ([]untis.Period, bool) {
	var envelope struct {
		Timetable struct {
			Periods []strictPeriod `json:"periods"`
		} `json:"timetable"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if periods, ok := mapStrictPeriods(envelope.Timetable.Periods); ok {
			return periods, true
		}
	}

	var bare []strictPeriod
	if err := json.Unmarshal(raw, &bare); err == nil {
		if periods, ok := mapStrictPeriods(bare); ok {
			return periods, true
		}
	}
	return nil, false
}

func mapStrictPeriods(list []strictPeriod) ([]untis.Period, bool) {
	if len(list) == 0 {
		return nil, false
	}
	periods := make([]untis.Period, 0, len(list))
	for _, sp := range list {
		start, startErr := untis.ParseStamp(sp.StartDateTime)
		end, endErr := untis.ParseStamp(sp.EndDateTime)
		if sp.ID == 0 || startErr != nil || endErr != nil {
			return nil, false
		}
		if end.Before(start) {
			end = start
		}

		elements := make([]untis.PeriodElement, 0, len(sp.Elements))
		for _, el := range sp.Elements {
			t, ok := elementTypeOf(el.Type)
			if !ok {
				continue
			}
			elements = append(elements, untis.PeriodElement{
				Type:     t,
				ID:       el.ID,
				OrgID:    el.OrgID,
				Name:     el.Name,
				LongName: el.LongName,
			})
		}

		periods = append(periods, finishPeriod(untis.Period{
			ID:            sp.ID,
			LessonID:      sp.LessonID,
			StartDateTime: start,
			EndDateTime:   end,
			ForeColor:     sp.ForeColor,
			BackColor:     sp.BackColor,
			Text: untis.PeriodText{
				Lesson:       sp.Text.Lesson,
				Substitution: sp.Text.Substitution,
				Info:         sp.Text.Info,
			},
			Elements: elements,
			Is:       append([]string{}, sp.Is...),
			Can:      append([]string{}, sp.Can...),
		}))
	}
	return periods, true
}

// periodRecords extracts the raw record list using the fixed probe order
// documented on the package.
func periodRecords(v any) []any {
	if arr, ok := list(v); ok {
		return arr
	}
	m, ok := object(v)
	if !ok {
		return nil
	}
	if tt, ok := object(m["timetable"]); ok {
		if arr, ok := list(tt["periods"]); ok {
			return arr
		}
	}
	if arr, ok := list(m["timetable"]); ok {
		return arr
	}
	if arr, ok := list(m["periods"]); ok {
		return arr
	}
	if arr, ok := list(m["lessons"]); ok {
		return arr
	}
	if days, ok := list(m["days"]); ok {
		return flattenDays(days)
	}
	if len(m) == 1 {
		for _, sole := range m {
			if arr, ok := list(sole); ok {
				return arr
			}
		}
	}
	return nil
}

// flattenDays folds the per-day grouping some REST servers use into one
// record list, stamping each entry with its day's date when the entry has no
// date of its own.
func flattenDays(days []any) []any {
	var out []any
	for _, d := range days {
		day, ok := object(d)
		if !ok {
			continue
		}
		date, hasDate := scalarString(day, "date")
		for _, key := range []string{"gridEntries", "entries", "periods"} {
			arr, ok := list(day[key])
			if !ok {
				continue
			}
			for _, rec := range arr {
				if m, ok := object(rec); ok && hasDate {
					if _, has := pick(m, "date", "startDateTime", "start"); !has {
						m["date"] = date
					}
				}
				out = append(out, rec)
			}
			break
		}
	}
	return out
}

// reconstructPeriod rebuilds one record from field aliases. A record with no
// recognizable field at all reports ok=false and is dropped.
func reconstructPeriod(rec any, index int) (untis.Period, bool) {
	m, ok := object(rec)
	if !ok {
		return untis.Period{}, false
	}

	id, hasID := pickInt(m, "id", "periodId")
	lessonID, _ := pickInt(m, "lessonId", "lsid", "lsnumber", "lessonNumber")
	start, end, hasSpan := timeSpan(m)
	text, hasText := periodText(m)
	elements := periodElements(m)
	states := stateFlags(m)

	if !hasID && !hasSpan && !hasText && len(elements) == 0 && len(states) == 0 {
		return untis.Period{}, false
	}

	if !hasID {
		id = -int64(index + 1)
	}
	if !hasSpan {
		start = timeNow().Truncate(time.Minute)
		end = start.Add(time.Hour)
	}

	foreColor, _ := scalarString(m, "foreColor", "forecolor")
	backColor, _ := scalarString(m, "backColor", "backcolor")

	p := finishPeriod(untis.Period{
		ID:            id,
		LessonID:      lessonID,
		StartDateTime: start,
		EndDateTime:   end,
		ForeColor:     foreColor,
		BackColor:     backColor,
		Text:          text,
		Elements:      elements,
		Is:            states,
		Can:           upperAll(stringList(m["can"])),
	})
	if p.Text.Lesson == "" {
		p.Text.Lesson = lessonLabel(p, index)
	}
	return p, true
}

// finishPeriod applies the canonical completeness guarantees shared by both
// tiers: defaulted colors and non-nil collections.
func finishPeriod(p untis.Period) untis.Period {
	if p.ForeColor == "" {
		p.ForeColor = untis.DefaultForeColor
	}
	if p.BackColor == "" {
		p.BackColor = untis.DefaultBackColor
	}
	if p.Elements == nil {
		p.Elements = []untis.PeriodElement{}
	}
	if p.Is == nil {
		p.Is = []string{}
	}
	if p.Can == nil {
		p.Can = []string{}
	}
	return p
}

// lessonLabel synthesizes the display text for a period that had none: the
// subject element's name when one exists, otherwise an index-based label.
func lessonLabel(p untis.Period, index int) string {
	for _, el := range p.ElementsOfType(untis.ElementSubject) {
		if el.LongName != "" {
			return el.LongName
		}
		if el.Name != "" {
			return el.Name
		}
	}
	return "Lesson " + strconv.Itoa(index+1)
}

// timeSpan recovers the period's span from any recognized alias. Full
// timestamps win over date plus time-of-day composition.
func timeSpan(m map[string]any) (time.Time, time.Time, bool) {
	duration, _ := object(m["duration"])

	start, hasStart := fullStamp(duration, m, "startDateTime", "start")
	end, hasEnd := fullStamp(duration, m, "endDateTime", "end")

	date, hasDate := scalarString(m, "date")
	startClock, hasStartClock := scalarString(m, "startTime", "starttime")
	endClock, hasEndClock := scalarString(m, "endTime", "endtime")

	if !hasDate && (hasStartClock || hasEndClock) {
		// Times without a date show up on degenerate single-day
		// payloads; they mean today.
		date = untis.FormatDate(timeNow())
		hasDate = true
	}
	if !hasStart && hasDate && hasStartClock {
		if t, err := untis.ParseDateTime(date, startClock); err == nil {
			start, hasStart = t, true
		}
	}
	if !hasEnd && hasDate && hasEndClock {
		if t, err := untis.ParseDateTime(date, endClock); err == nil {
			end, hasEnd = t, true
		}
	}

	switch {
	case hasStart && hasEnd:
	case hasStart:
		end = start.Add(time.Hour)
	case hasEnd:
		start = end.Add(-time.Hour)
	case hasDate:
		day, err := untis.ParseDate(date)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		start, end = day, day.Add(time.Hour)
	default:
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		end = start
	}
	return start, end, true
}

// fullStamp looks for a complete timestamp under the given keys, preferring
// the nested duration object modern servers use.
func fullStamp(duration, m map[string]any, keys ...string) (time.Time, bool) {
	for _, source := range []map[string]any{duration, m} {
		if source == nil {
			continue
		}
		s, ok := scalarString(source, keys...)
		if !ok {
			continue
		}
		if t, err := untis.ParseStamp(s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// periodText collects the display strings from the nested text object or the
// flat legacy aliases. ok reports whether any real text was present, so
// synthesized labels never count as source data.
func periodText(m map[string]any) (untis.PeriodText, bool) {
	var text untis.PeriodText
	found := false

	if obj, ok := object(m["text"]); ok {
		if s, ok := scalarString(obj, "lesson"); ok {
			text.Lesson = s
			found = true
		}
		if s, ok := scalarString(obj, "substitution"); ok {
			text.Substitution = s
			found = true
		}
		if s, ok := scalarString(obj, "info"); ok {
			text.Info = s
			found = true
		}
	}
	if text.Lesson == "" {
		if s, ok := scalarString(m, "lstext"); ok {
			text.Lesson = s
			found = true
		}
	}
	if text.Substitution == "" {
		if s, ok := scalarString(m, "substText", "txt"); ok {
			text.Substitution = s
			found = true
		}
	}
	if text.Info == "" {
		if s, ok := scalarString(m, "info", "infoText"); ok {
			text.Info = s
			found = true
		}
	}
	return text, found
}

var legacyElementGroups = []struct {
	key string
	t   untis.ElementType
}{
	{"kl", untis.ElementClass},
	{"klassen", untis.ElementClass},
	{"te", untis.ElementTeacher},
	{"teachers", untis.ElementTeacher},
	{"su", untis.ElementSubject},
	{"subjects", untis.ElementSubject},
	{"ro", untis.ElementRoom},
	{"rooms", untis.ElementRoom},
}

// periodElements reads the typed element array modern servers send, falling
// back to the per-type arrays of the legacy dialect.
func periodElements(m map[string]any) []untis.PeriodElement {
	out := []untis.PeriodElement{}

	if arr, ok := list(m["elements"]); ok {
		for _, v := range arr {
			el, ok := object(v)
			if !ok {
				continue
			}
			t, ok := elementTypeOf(el["type"])
			if !ok {
				continue
			}
			out = append(out, periodElement(el, t))
		}
		return out
	}

	for _, group := range legacyElementGroups {
		arr, ok := list(m[group.key])
		if !ok {
			continue
		}
		for _, v := range arr {
			el, ok := object(v)
			if !ok {
				continue
			}
			out = append(out, periodElement(el, group.t))
		}
	}
	return out
}

func periodElement(el map[string]any, t untis.ElementType) untis.PeriodElement {
	id, _ := pickInt(el, "id")
	orgID, _ := pickInt(el, "orgId", "orgid", "originalId")
	name, _ := scalarString(el, "name", "displayname")
	longName, _ := scalarString(el, "longName", "longname")
	return untis.PeriodElement{Type: t, ID: id, OrgID: orgID, Name: name, LongName: longName}
}

// elementTypeOf accepts the numeric wire code, its string form, and the
// symbolic names modern servers use.
func elementTypeOf(v any) (untis.ElementType, bool) {
	if n, ok := integer(v); ok && n >= 1 && n <= 5 {
		return untis.ElementType(n), true
	}
	if s, ok := v.(string); ok {
		return untis.ParseElementType(s)
	}
	return 0, false
}

// stateFlags merges the modern is-flags with the legacy code field.
func stateFlags(m map[string]any) []string {
	states := upperAll(stringList(m["is"]))
	if code, ok := scalarString(m, "code"); ok {
		var mapped string
		switch strings.ToLower(code) {
		case "cancelled":
			mapped = untis.StateCancelled
		case "irregular":
			mapped = untis.StateIrregular
		}
		if mapped != "" && !contains(states, mapped) {
			states = append(states, mapped)
		}
	}
	return states
}
