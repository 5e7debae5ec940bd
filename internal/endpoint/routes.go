package endpoint

// Operation names one caller-visible unit of work.
type Operation string

const (
	OpAuthenticate  Operation = "authenticate"
	OpUserData      Operation = "userData"
	OpTimetable     Operation = "timetable"
	OpSubstitutions Operation = "substitutions"
	OpMessages      Operation = "messagesOfDay"
	OpExams         Operation = "exams"
	OpHomework      Operation = "homework"
	OpAbsences      Operation = "absences"
	OpHolidays      Operation = "holidays"
	OpSchoolyears   Operation = "schoolyears"
	OpKlassen       Operation = "klassen"
	OpTeachers      Operation = "teachers"
	OpSubjects      Operation = "subjects"
	OpRooms         Operation = "rooms"
	OpStudents      Operation = "students"
	OpLogout        Operation = "logout"
)

// Route binds one dialect to the method name (JSON-RPC) or resource path
// (REST) that serves an operation on that dialect.
type Route struct {
	Dialect Dialect
	Method  string
}

// routes is the single source of truth for which dialects can serve which
// operation and in which order they are tried. Entries earlier in a list win.
// Changing priorities or teaching the client a new server generation is an
// edit here, not new code.
var routes = map[Operation][]Route{
	OpAuthenticate: {
		{DialectJSONRPCIntern, "getAppSharedSecret"},
		{DialectJSONRPC, "authenticate"},
	},
	OpUserData: {
		{DialectJSONRPCIntern, "getUserData2017"},
		{DialectRESTv1, "app/data"},
	},
	OpTimetable: {
		{DialectJSONRPCIntern, "getTimetable2017"},
		{DialectJSONRPC, "getTimetable"},
		{DialectRESTv3, "timetable/entries"},
		{DialectRESTv1, "timetable/weekly/data"},
	},
	// Only the legacy dialect has a dedicated substitution query; modern
	// servers fold changes into the timetable's period states.
	OpSubstitutions: {
		{DialectJSONRPC, "getSubstitutions"},
	},
	OpMessages: {
		{DialectJSONRPCIntern, "getMessagesOfDay2017"},
		{DialectRESTv1, "messages"},
	},
	OpExams: {
		{DialectJSONRPCIntern, "getExams2017"},
		{DialectJSONRPC, "getExams"},
	},
	OpHomework: {
		{DialectJSONRPCIntern, "getHomeWork2017"},
		{DialectRESTv1, "homeworks"},
	},
	OpAbsences: {
		{DialectJSONRPCIntern, "getStudentAbsences2017"},
		{DialectRESTv1, "absences"},
	},
	OpHolidays: {
		{DialectJSONRPC, "getHolidays"},
		{DialectJSONRPCIntern, "getHolidays2017"},
	},
	// School years ride along in the mobile user data when the dedicated
	// legacy query is gone.
	OpSchoolyears: {
		{DialectJSONRPC, "getSchoolyears"},
		{DialectJSONRPCIntern, "getUserData2017"},
	},
	OpKlassen: {
		{DialectJSONRPC, "getKlassen"},
		{DialectRESTv1, "classes"},
	},
	OpTeachers: {
		{DialectJSONRPC, "getTeachers"},
		{DialectRESTv1, "teachers"},
	},
	OpSubjects: {
		{DialectJSONRPC, "getSubjects"},
		{DialectRESTv1, "subjects"},
	},
	OpRooms: {
		{DialectJSONRPC, "getRooms"},
		{DialectRESTv1, "rooms"},
	},
	OpStudents: {
		{DialectJSONRPC, "getStudents"},
	},
	OpLogout: {
		{DialectJSONRPC, "logout"},
	},
}

// Attempt is one concrete try for a logical operation: a dialect entry point
// plus the method or resource path to use on it. Rank ascending is the try
// order within the operation.
type Attempt struct {
	Candidate Candidate
	Method    string
	Rank      int
}

// Key identifies the attempt independent of rank, for winner pinning.
func (a Attempt) Key() string {
	return string(a.Candidate.Dialect) + " " + a.Method
}

// PlanAttempts crosses the operation's routes with the tenant's candidates:
// table order first, candidate rank second. Unknown operations plan nothing.
func PlanAttempts(op Operation, candidates []Candidate) []Attempt {
	var out []Attempt
	for _, route := range routes[op] {
		for _, c := range candidates {
			if c.Dialect != route.Dialect {
				continue
			}
			out = append(out, Attempt{Candidate: c, Method: route.Method, Rank: len(out)})
		}
	}
	return out
}

// Prioritize returns the plan with the attempt matching key moved to the
// front, re-ranked. It returns the plan unchanged when no attempt matches.
// Sessions use this to pin a previously winning candidate.
func Prioritize(plan []Attempt, key string) []Attempt {
	idx := -1
	for i, a := range plan {
		if a.Key() == key {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return plan
	}
	out := make([]Attempt, 0, len(plan))
	out = append(out, plan[idx])
	out = append(out, plan[:idx]...)
	out = append(out, plan[idx+1:]...)
	for i := range out {
		out[i].Rank = i
	}
	return out
}
