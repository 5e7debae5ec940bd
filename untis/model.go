package untis

import "time"

// Credentials is the opaque pair produced by login and consumed by every
// authenticated call. Key is the session secret the dialect bindings turn
// into their own proof of identity (OTP, cookie, or bearer token); ElementID
// and ElementType identify the logged-in person's own timetable element.
type Credentials struct {
	User        string `json:"user" toml:"user"`
	Key         string `json:"key" toml:"key"`
	ElementID   int64  `json:"elementId" toml:"element_id"`
	ElementType string `json:"elementType" toml:"element_type"`
}

// Valid reports whether the credentials can authenticate a request.
func (c Credentials) Valid() bool {
	return c.User != "" && c.Key != ""
}

// User is the logged-in account's identity as the server reports it.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	SchoolName  string `json:"schoolName"`
	ElementID   int64  `json:"elementId"`
	ElementType string `json:"elementType"`
}

// Element is one master-data entry: a class, teacher, subject, or room.
type Element struct {
	Type     ElementType `json:"type"`
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	LongName string      `json:"longName,omitempty"`
	Active   bool        `json:"active"`
}

// MasterData aggregates the element lists a server publishes for a school.
// Lists are possibly empty, never nil semantics-wise: iterate freely.
type MasterData struct {
	Classes   []Element    `json:"classes"`
	Teachers  []Element    `json:"teachers"`
	Subjects  []Element    `json:"subjects"`
	Rooms     []Element    `json:"rooms"`
	Holidays  []Holiday    `json:"holidays"`
	Timestamp time.Time    `json:"timestamp"`
	Years     []SchoolYear `json:"years"`
}

// Holiday is a school holiday span.
type Holiday struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LongName  string    `json:"longName,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// SchoolYear is one configured school year.
type SchoolYear struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Contains reports whether t falls within the school year, boundary days
// included. The current year is the one containing today.
func (y SchoolYear) Contains(t time.Time) bool {
	return !t.Before(y.StartDate) && !t.After(y.EndDate)
}

// Message is one message-of-day entry.
type Message struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Exam is one scheduled exam.
type Exam struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Subject       string    `json:"subject"`
	Text          string    `json:"text,omitempty"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
}

// Homework is one homework assignment attached to a lesson.
type Homework struct {
	ID        int64     `json:"id"`
	LessonID  int64     `json:"lessonId"`
	Text      string    `json:"text"`
	Remark    string    `json:"remark,omitempty"`
	StartDate time.Time `json:"startDate"`
	DueDate   time.Time `json:"dueDate"`
	Completed bool      `json:"completed"`
}

// Absence is one student absence span.
type Absence struct {
	ID            int64     `json:"id"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	Reason        string    `json:"reason,omitempty"`
	Text          string    `json:"text,omitempty"`
	Excused       bool      `json:"excused"`
}

// SchoolInfo is one school-search hit from the central lookup service.
type SchoolInfo struct {
	Server      string `json:"server"`
	LoginName   string `json:"loginName"`
	DisplayName string `json:"displayName"`
	Address     string `json:"address,omitempty"`
	SchoolID    int64  `json:"schoolId"`
}

// CacheMode selects how a timetable request interacts with the local cache
// collaborator and which Cache-Control policy the REST dialect advertises.
type CacheMode int

const (
	// NoCache bypasses the cache entirely and asks servers not to store.
	NoCache CacheMode = iota
	// OfflineOnly serves exclusively from the local cache, no network.
	OfflineOnly
	// OnlineOnly always fetches, revalidating any intermediary caches, and
	// refreshes the local cache on success.
	OnlineOnly
	// FullCache fetches, falls back to the local cache on failure, and
	// allows short-lived intermediary caching.
	FullCache
)

var cacheModeNames = map[CacheMode]string{
	NoCache:     "NO_CACHE",
	OfflineOnly: "OFFLINE_ONLY",
	OnlineOnly:  "ONLINE_ONLY",
	FullCache:   "FULL_CACHE",
}

// String returns the wire name sent in the Cache-Mode header.
func (m CacheMode) String() string {
	if name, ok := cacheModeNames[m]; ok {
		return name
	}
	return "ONLINE_ONLY"
}
