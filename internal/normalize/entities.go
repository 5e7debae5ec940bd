package normalize

import (
	"time"

	json "github.com/goccy/go-json"

	"github.com/PythonTilk/untisgo/untis"
)

// LoginResult carries what an authentication payload yielded, whichever
// dialect produced it.
type LoginResult struct {
	SessionID  string
	PersonID   int64
	PersonType untis.ElementType
	KlasseID   int64
}

// Login reads the legacy authenticate result. ok is false when the payload
// carries no session id, in which case the caller should try the next
// authentication shape.
func Login(raw json.RawMessage) (LoginResult, bool) {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return LoginResult{}, false
	}
	m, ok := object(loose)
	if !ok {
		return LoginResult{}, false
	}

	var res LoginResult
	res.SessionID, _ = scalarString(m, "sessionId", "sessionID", "session")
	res.PersonID, _ = pickInt(m, "personId", "elemId")
	res.KlasseID, _ = pickInt(m, "klasseId")
	if t, ok := elementTypeOf(m["personType"]); ok {
		res.PersonType = t
	}
	return res, res.SessionID != ""
}

// AppSecret reads the shared-secret result of the internal dialect, which is
// either a bare JSON string or a small object naming the secret.
func AppSecret(raw json.RawMessage) (string, bool) {
	var secret string
	if err := json.Unmarshal(raw, &secret); err == nil && secret != "" {
		return secret, true
	}
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return "", false
	}
	if m, ok := object(loose); ok {
		if s, ok := scalarString(m, "appSharedSecret", "sharedSecret", "secret", "key"); ok {
			return s, true
		}
	}
	return "", false
}

// User rebuilds the logged-in account's identity from a user-data payload.
// Missing fields stay zero; the result is always usable.
func User(raw json.RawMessage) untis.User {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return untis.User{}
	}
	m, ok := object(loose)
	if !ok {
		return untis.User{}
	}
	if inner, ok := object(m["userData"]); ok {
		m = inner
	}

	var u untis.User
	u.ID, _ = pickInt(m, "id", "userId")
	u.Name, _ = scalarString(m, "name", "user", "login", "username")
	u.DisplayName, _ = scalarString(m, "displayName", "displayname")
	u.SchoolName, _ = scalarString(m, "schoolName", "school")
	u.ElementID, _ = pickInt(m, "elemId", "elementId", "personId")
	if t, ok := elementTypeOf(pickAny(m, "elemType", "elementType", "personType", "type")); ok {
		u.ElementType = t.String()
	} else if s, ok := scalarString(m, "elemType", "elementType", "type"); ok {
		u.ElementType = s
	}
	return u
}

func pickAny(m map[string]any, keys ...string) any {
	v, _ := pick(m, keys...)
	return v
}

// MasterData rebuilds the school's element lists. Payloads nest them under a
// masterData key or carry them at the top level.
func MasterData(raw json.RawMessage) untis.MasterData {
	md := untis.MasterData{
		Classes:  []untis.Element{},
		Teachers: []untis.Element{},
		Subjects: []untis.Element{},
		Rooms:    []untis.Element{},
		Holidays: []untis.Holiday{},
		Years:    []untis.SchoolYear{},
	}

	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return md
	}
	m, ok := object(loose)
	if !ok {
		return md
	}
	if inner, ok := object(m["masterData"]); ok {
		m = inner
	}

	md.Classes = elementList(listUnder(m, "klassen", "classes"), untis.ElementClass)
	md.Teachers = elementList(listUnder(m, "teachers"), untis.ElementTeacher)
	md.Subjects = elementList(listUnder(m, "subjects"), untis.ElementSubject)
	md.Rooms = elementList(listUnder(m, "rooms"), untis.ElementRoom)
	md.Holidays = holidayList(listUnder(m, "holidays"))
	md.Years = schoolYearList(listUnder(m, "schoolyears", "schoolYears", "years"))
	if ts, ok := pickInt(m, "timeStamp", "timestamp"); ok && ts > 0 {
		md.Timestamp = time.UnixMilli(ts)
	}
	return md
}

func listUnder(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if arr, ok := list(m[k]); ok {
			return arr
		}
	}
	return nil
}

// Elements rebuilds one master-data list of a known element type, as
// returned by the per-type legacy queries.
func Elements(raw json.RawMessage, t untis.ElementType) []untis.Element {
	return elementList(genericRecords(raw, "elements", "data", "results"), t)
}

func elementList(records []any, t untis.ElementType) []untis.Element {
	out := make([]untis.Element, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		id, hasID := pickInt(m, "id")
		name, hasName := scalarString(m, "name", "displayname", "displayName")
		if !hasID && !hasName {
			continue
		}
		el := untis.Element{Type: t, ID: id, Name: name}
		el.LongName, _ = scalarString(m, "longName", "longname")
		if active, ok := pickBool(m, "active"); ok {
			el.Active = active
		} else {
			el.Active = true
		}
		out = append(out, el)
	}
	return out
}

// Messages rebuilds the messages of day.
func Messages(raw json.RawMessage) []untis.Message {
	records := genericRecords(raw, "messagesOfDay", "messages")
	out := make([]untis.Message, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		var msg untis.Message
		var hasSubject, hasBody bool
		msg.ID, _ = pickInt(m, "id")
		msg.Subject, hasSubject = scalarString(m, "subject", "title")
		msg.Body, hasBody = scalarString(m, "text", "body")
		if msg.ID == 0 && !hasSubject && !hasBody {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// Exams rebuilds scheduled exams from either the modern timestamped shape or
// the legacy date plus time-of-day shape.
func Exams(raw json.RawMessage) []untis.Exam {
	records := genericRecords(raw, "exams")
	out := make([]untis.Exam, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		if _, has := pick(m, "date"); !has {
			if d, ok := pick(m, "examDate"); ok {
				m["date"] = d
			}
		}
		start, end, hasSpan := timeSpan(m)

		var exam untis.Exam
		var hasName, hasSubject bool
		exam.ID, _ = pickInt(m, "id")
		exam.Name, hasName = scalarString(m, "name", "examType")
		exam.Subject, hasSubject = scalarString(m, "subject")
		exam.Text, _ = scalarString(m, "text")
		if exam.ID == 0 && !hasName && !hasSubject && !hasSpan {
			continue
		}
		if hasSpan {
			exam.StartDateTime, exam.EndDateTime = start, end
		}
		out = append(out, exam)
	}
	return out
}

// Homeworks rebuilds homework assignments.
func Homeworks(raw json.RawMessage) []untis.Homework {
	records := genericRecords(raw, "homeWorks", "homeworks", "homework")
	out := make([]untis.Homework, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		var hw untis.Homework
		var hasText bool
		hw.ID, _ = pickInt(m, "id")
		hw.LessonID, _ = pickInt(m, "lessonId", "lsid")
		hw.Text, hasText = scalarString(m, "text")
		hw.Remark, _ = scalarString(m, "remark")
		if hw.ID == 0 && !hasText {
			continue
		}
		if s, ok := scalarString(m, "startDate", "date"); ok {
			if t, err := untis.ParseDate(s); err == nil {
				hw.StartDate = t
			}
		}
		if s, ok := scalarString(m, "endDate", "dueDate"); ok {
			if t, err := untis.ParseDate(s); err == nil {
				hw.DueDate = t
			}
		}
		hw.Completed, _ = pickBool(m, "completed", "done")
		out = append(out, hw)
	}
	return out
}

// Absences rebuilds student absence spans.
func Absences(raw json.RawMessage) []untis.Absence {
	records := genericRecords(raw, "absences", "studentAbsences")
	out := make([]untis.Absence, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		start, end, hasSpan := timeSpan(m)

		var ab untis.Absence
		ab.ID, _ = pickInt(m, "id")
		ab.Reason, _ = scalarString(m, "absenceReason", "reason")
		ab.Text, _ = scalarString(m, "text")
		if ab.ID == 0 && !hasSpan {
			continue
		}
		if hasSpan {
			ab.StartDateTime, ab.EndDateTime = start, end
		}
		ab.Excused, _ = pickBool(m, "excused")
		out = append(out, ab)
	}
	return out
}

// Holidays rebuilds school holidays.
func Holidays(raw json.RawMessage) []untis.Holiday {
	return holidayList(genericRecords(raw, "holidays"))
}

func holidayList(records []any) []untis.Holiday {
	out := make([]untis.Holiday, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		var h untis.Holiday
		var hasName bool
		h.ID, _ = pickInt(m, "id")
		h.Name, hasName = scalarString(m, "name")
		h.LongName, _ = scalarString(m, "longName", "longname")
		if h.ID == 0 && !hasName {
			continue
		}
		if s, ok := scalarString(m, "startDate"); ok {
			if t, err := untis.ParseDate(s); err == nil {
				h.StartDate = t
			}
		}
		if s, ok := scalarString(m, "endDate"); ok {
			if t, err := untis.ParseDate(s); err == nil {
				h.EndDate = t
			}
		}
		if h.EndDate.Before(h.StartDate) {
			h.EndDate = h.StartDate
		}
		out = append(out, h)
	}
	return out
}

// SchoolYears rebuilds the school-year list from either the dedicated legacy
// query result or a user-data payload nesting the years under masterData.
func SchoolYears(raw json.RawMessage) []untis.SchoolYear {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return []untis.SchoolYear{}
	}
	if m, ok := object(loose); ok {
		if inner, ok := object(m["masterData"]); ok {
			loose = inner
		}
	}
	return schoolYearList(recordsIn(loose, "schoolyears", "schoolYears", "years"))
}

func schoolYearList(records []any) []untis.SchoolYear {
	out := make([]untis.SchoolYear, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		var y untis.SchoolYear
		var hasName bool
		y.ID, _ = pickInt(m, "id")
		y.Name, hasName = scalarString(m, "name")
		if y.ID == 0 && !hasName {
			continue
		}
		if s, ok := scalarString(m, "startDate"); ok {
			if t, err := untis.ParseDate(s); err == nil {
				y.StartDate = t
			}
		}
		if s, ok := scalarString(m, "endDate"); ok {
			if t, err := untis.ParseDate(s); err == nil {
				y.EndDate = t
			}
		}
		out = append(out, y)
	}
	return out
}

// Schools rebuilds school-search hits from the central lookup service.
func Schools(raw json.RawMessage) []untis.SchoolInfo {
	records := genericRecords(raw, "schools")
	out := make([]untis.SchoolInfo, 0, len(records))
	for _, rec := range records {
		m, ok := object(rec)
		if !ok {
			continue
		}
		var s untis.SchoolInfo
		var hasLogin, hasDisplay bool
		s.Server, _ = scalarString(m, "server", "serverUrl")
		s.LoginName, hasLogin = scalarString(m, "loginName", "loginSchool")
		s.DisplayName, hasDisplay = scalarString(m, "displayName", "name")
		s.Address, _ = scalarString(m, "address")
		s.SchoolID, _ = pickInt(m, "schoolId", "id")
		if s.Server == "" && !hasLogin && !hasDisplay {
			continue
		}
		out = append(out, s)
	}
	return out
}
