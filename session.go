package untisgo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PythonTilk/untisgo/internal/endpoint"
	"github.com/PythonTilk/untisgo/internal/fallback"
	"github.com/PythonTilk/untisgo/internal/normalize"
	"github.com/PythonTilk/untisgo/internal/protocol"
	"github.com/PythonTilk/untisgo/untis"
)

// opSearchSchools is not part of the tenant route table: school search talks
// to the central lookup service, not the tenant's server.
const opSearchSchools = endpoint.Operation("searchSchool")

// Session is a client for one school on one WebUntis server. Construction
// resolves the ranked endpoint candidates once; every logical operation then
// walks its candidates in order until one answers, and remembers the winner
// so the next call of the same operation leads with the known-good dialect.
//
// A Session is safe for concurrent use. Candidates and tenant are immutable
// after construction; credentials are replaced atomically, never mutated.
type Session struct {
	tenant     endpoint.Tenant
	candidates []endpoint.Candidate
	orch       *fallback.Orchestrator
	log        *slog.Logger
	store      CredentialStore
	cache      TimetableCache
	agent      string
	searchURL  string
	now        func() time.Time

	mu    sync.RWMutex
	creds *untis.Credentials
	pins  map[endpoint.Operation]string
}

// NewSession resolves host and school into ranked endpoint candidates and
// returns a session ready for Login or Restore. It performs no network I/O;
// unreachable servers surface on the first operation instead.
func NewSession(host, school string, opts Options) (*Session, error) {
	tenant, err := endpoint.ResolveTenant(host, school)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	candidates, err := endpoint.Candidates(tenant)
	if err != nil {
		return nil, fmt.Errorf("enumerate endpoints: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = protocol.DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = defaultUserAgent
	}
	searchURL := opts.SearchURL
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}

	return &Session{
		tenant:     tenant,
		candidates: candidates,
		orch:       fallback.New(protocol.NewExec(client, agent), logger),
		log:        logger,
		store:      opts.Credentials,
		cache:      opts.Cache,
		agent:      agent,
		searchURL:  searchURL,
		now:        time.Now,
		pins:       map[endpoint.Operation]string{},
	}, nil
}

// Host returns the server host the session was built for.
func (s *Session) Host() string { return s.tenant.Host }

// School returns the school login name.
func (s *Session) School() string { return s.tenant.School }

// Credentials returns a copy of the active credentials, if any.
func (s *Session) Credentials() (untis.Credentials, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return untis.Credentials{}, false
	}
	return *s.creds, true
}

// SetCredentials installs credentials obtained elsewhere, such as a previous
// session or a QR code import. It reports whether they were usable.
func (s *Session) SetCredentials(creds untis.Credentials) bool {
	if !creds.Valid() {
		return false
	}
	s.setCreds(creds)
	return true
}

// Restore loads saved credentials for user from the credential store and
// reports whether a usable set was found.
func (s *Session) Restore(user string) bool {
	if s.store == nil {
		return false
	}
	creds, ok := s.store.Load(s.tenantUserID(user))
	if !ok || !creds.Valid() {
		return false
	}
	s.setCreds(creds)
	return true
}

func (s *Session) setCreds(creds untis.Credentials) {
	s.mu.Lock()
	s.creds = &creds
	s.mu.Unlock()
}

// tenantUserID keys the persistence collaborators by server, school, and
// user, so one store can serve several sessions.
func (s *Session) tenantUserID(user string) string {
	return s.tenant.Host + "/" + s.tenant.School + "/" + user
}

// plan builds the ranked attempt list for op, leading with the pinned winner
// of a previous call when there is one.
func (s *Session) plan(op endpoint.Operation) []endpoint.Attempt {
	s.mu.RLock()
	pin := s.pins[op]
	s.mu.RUnlock()
	attempts := endpoint.PlanAttempts(op, s.candidates)
	if pin != "" {
		attempts = endpoint.Prioritize(attempts, pin)
	}
	return attempts
}

// run drives one operation through the fallback chain and pins the winner.
func (s *Session) run(ctx context.Context, op endpoint.Operation, req protocol.Request) (fallback.Result, error) {
	res, err := s.orch.Run(ctx, op, s.plan(op), req)
	if err != nil {
		return fallback.Result{}, err
	}
	s.mu.Lock()
	s.pins[op] = res.Winner.Key()
	s.mu.Unlock()
	return res, nil
}

// authed builds a request carrying a snapshot of the active credentials.
func (s *Session) authed(params protocol.Params) (protocol.Request, error) {
	creds, ok := s.Credentials()
	if !ok {
		return protocol.Request{}, ErrNotLoggedIn
	}
	return protocol.Request{Params: params, Credentials: &creds, CacheMode: untis.OnlineOnly}, nil
}

// Login authenticates user with password, preferring the mobile key exchange
// and falling back to a legacy session login. On success the credentials are
// installed on the session and saved to the credential store when one is
// wired. The returned credentials carry the element identity timetable
// queries default to; after a key exchange that identity is fetched with a
// follow-up user data call, best-effort.
func (s *Session) Login(ctx context.Context, user, password string) (untis.Credentials, error) {
	req := protocol.Request{
		Params: loginParams{user: user, password: password, client: s.agent},
	}
	res, err := s.run(ctx, endpoint.OpAuthenticate, req)
	if err != nil {
		return untis.Credentials{}, err
	}

	creds, err := loginCredentials(user, res)
	if err != nil {
		return untis.Credentials{}, err
	}
	s.setCreds(creds)

	if creds.ElementID == 0 {
		// The key exchange hands out only the shared secret; the element
		// identity lives in the user data.
		if u, _, err := s.UserData(ctx); err == nil && u.ElementID != 0 {
			creds.ElementID = u.ElementID
			creds.ElementType = u.ElementType
			s.setCreds(creds)
		}
	}

	if s.store != nil && !s.store.Save(s.tenantUserID(user), creds) {
		s.log.WarnContext(ctx, "credential store save failed", "user", user)
	}
	return creds, nil
}

// loginCredentials maps the winning dialect's authentication payload onto
// credentials.
func loginCredentials(user string, res fallback.Result) (untis.Credentials, error) {
	if res.Winner.Candidate.Dialect == endpoint.DialectJSONRPCIntern {
		secret, ok := normalize.AppSecret(res.Raw)
		if !ok {
			return untis.Credentials{}, fmt.Errorf("%s: %w", endpoint.OpAuthenticate,
				&untis.ServerError{Message: "authentication succeeded without a shared secret"})
		}
		return untis.Credentials{User: user, Key: secret}, nil
	}

	login, ok := normalize.Login(res.Raw)
	if !ok {
		return untis.Credentials{}, fmt.Errorf("%s: %w", endpoint.OpAuthenticate,
			&untis.ServerError{Message: "authentication succeeded without a session id"})
	}
	creds := untis.Credentials{User: user, Key: login.SessionID}
	switch {
	case login.PersonID != 0:
		creds.ElementID = login.PersonID
		if login.PersonType != 0 {
			creds.ElementType = login.PersonType.String()
		}
	case login.KlasseID != 0:
		creds.ElementID = login.KlasseID
		creds.ElementType = untis.ElementClass.String()
	}
	return creds, nil
}

// Logout drops the session's credentials, removes them from the credential
// store, and asks the server to invalidate the legacy session. The server
// call is best-effort: local logout has already happened when it runs, so
// its failure is only logged.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	creds := s.creds
	s.creds = nil
	s.mu.Unlock()
	if creds == nil {
		return nil
	}

	if s.store != nil {
		s.store.Delete(s.tenantUserID(creds.User))
	}

	req := protocol.Request{Params: protocol.NoParams{}, Credentials: creds}
	if _, err := s.orch.Run(ctx, endpoint.OpLogout, s.plan(endpoint.OpLogout), req); err != nil {
		s.log.DebugContext(ctx, "server logout failed", "error", err)
	}
	return nil
}

// UserData fetches the account identity and the school's master data in one
// call.
func (s *Session) UserData(ctx context.Context) (untis.User, untis.MasterData, error) {
	req, err := s.authed(protocol.NoParams{})
	if err != nil {
		return untis.User{}, untis.MasterData{}, err
	}
	res, err := s.run(ctx, endpoint.OpUserData, req)
	if err != nil {
		return untis.User{}, untis.MasterData{}, err
	}
	return normalize.User(res.Raw), normalize.MasterData(res.Raw), nil
}

// TimetableQuery selects what Timetable fetches. The zero value asks for the
// logged-in element's current week and bypasses the local cache.
type TimetableQuery struct {
	// Range selects the days to fetch. A zero range means the current
	// week, Monday through Sunday.
	Range untis.DateRange

	// ElementID and ElementType select whose timetable to fetch. A zero
	// ElementID means the element tied to the credentials.
	ElementID   int64
	ElementType untis.ElementType

	// CacheMode sets both the wire cache headers and how the local cache
	// collaborator is used.
	CacheMode untis.CacheMode
}

// Timetable fetches the timetable selected by q and normalizes it into the
// canonical form. In FullCache mode fetch failures fall back to the local
// cache; OfflineOnly never touches the network and yields an empty timetable
// on a cache miss.
func (s *Session) Timetable(ctx context.Context, q TimetableQuery) (untis.Timetable, error) {
	creds, ok := s.Credentials()
	if !ok {
		return untis.Timetable{}, ErrNotLoggedIn
	}

	r := s.resolveRange(q.Range)
	key := s.tenantUserID(creds.User)

	if q.CacheMode == untis.OfflineOnly {
		if s.cache != nil {
			if cached, ok := s.cache.Load(ctx, key, r); ok {
				return cached, nil
			}
		}
		return untis.Timetable{Range: r, Periods: []untis.Period{}}, nil
	}

	id, typ := q.ElementID, q.ElementType
	if id == 0 {
		id, typ = ownElement(creds)
	} else if typ == 0 {
		typ = untis.ElementStudent
	}

	req := protocol.Request{
		Params:      elementRangeParams{id: id, typ: typ, r: r},
		Credentials: &creds,
		CacheMode:   q.CacheMode,
	}
	res, err := s.run(ctx, endpoint.OpTimetable, req)
	if err != nil {
		if q.CacheMode == untis.FullCache && s.cache != nil {
			if cached, ok := s.cache.Load(ctx, key, r); ok {
				s.log.DebugContext(ctx, "timetable served from cache",
					"user", creds.User, "error", err)
				return cached, nil
			}
		}
		return untis.Timetable{}, err
	}

	tt := normalize.Timetable(res.Raw, r)
	if q.CacheMode != untis.NoCache && s.cache != nil {
		if err := s.cache.Store(ctx, key, tt); err != nil {
			s.log.WarnContext(ctx, "timetable cache store failed", "error", err)
		}
	}
	return tt, nil
}

// Substitutions fetches the schedule changes within r as canonical periods,
// with each entry's change kind folded into the state flags. A zero range
// means the current week. Modern servers report changes as period states on
// the timetable itself and do not serve this query.
func (s *Session) Substitutions(ctx context.Context, r untis.DateRange) (untis.Timetable, error) {
	resolved := s.resolveRange(r)
	req, err := s.authed(rangeParams{r: resolved})
	if err != nil {
		return untis.Timetable{}, err
	}
	res, err := s.run(ctx, endpoint.OpSubstitutions, req)
	if err != nil {
		return untis.Timetable{}, err
	}
	return normalize.Substitutions(res.Raw, resolved), nil
}

// MessagesOfDay fetches the notices published for day.
func (s *Session) MessagesOfDay(ctx context.Context, day time.Time) ([]untis.Message, error) {
	req, err := s.authed(dayParams{day: day})
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, endpoint.OpMessages, req)
	if err != nil {
		return nil, err
	}
	return normalize.Messages(res.Raw), nil
}

// Exams fetches the logged-in element's exams within r. A zero range means
// the current week.
func (s *Session) Exams(ctx context.Context, r untis.DateRange) ([]untis.Exam, error) {
	res, err := s.runElementRange(ctx, endpoint.OpExams, r)
	if err != nil {
		return nil, err
	}
	return normalize.Exams(res.Raw), nil
}

// Homework fetches the homework assigned within r. A zero range means the
// current week.
func (s *Session) Homework(ctx context.Context, r untis.DateRange) ([]untis.Homework, error) {
	res, err := s.runElementRange(ctx, endpoint.OpHomework, r)
	if err != nil {
		return nil, err
	}
	return normalize.Homeworks(res.Raw), nil
}

// runElementRange is the shared shape of exam and homework fetches: the own
// element plus a date range.
func (s *Session) runElementRange(ctx context.Context, op endpoint.Operation, r untis.DateRange) (fallback.Result, error) {
	creds, ok := s.Credentials()
	if !ok {
		return fallback.Result{}, ErrNotLoggedIn
	}
	id, typ := ownElement(creds)
	req := protocol.Request{
		Params:      elementRangeParams{id: id, typ: typ, r: s.resolveRange(r)},
		Credentials: &creds,
		CacheMode:   untis.OnlineOnly,
	}
	return s.run(ctx, op, req)
}

// Absences fetches the student's absences within r, excused and unexcused
// alike. A zero range means the current week.
func (s *Session) Absences(ctx context.Context, r untis.DateRange) ([]untis.Absence, error) {
	req, err := s.authed(absenceParams{r: s.resolveRange(r)})
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, endpoint.OpAbsences, req)
	if err != nil {
		return nil, err
	}
	return normalize.Absences(res.Raw), nil
}

// Holidays fetches the school year's holidays.
func (s *Session) Holidays(ctx context.Context) ([]untis.Holiday, error) {
	req, err := s.authed(protocol.NoParams{})
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, endpoint.OpHolidays, req)
	if err != nil {
		return nil, err
	}
	return normalize.Holidays(res.Raw), nil
}

// Schoolyears fetches the configured school years. The current one is the
// year whose span contains today; see untis.SchoolYear.Contains.
func (s *Session) Schoolyears(ctx context.Context) ([]untis.SchoolYear, error) {
	req, err := s.authed(protocol.NoParams{})
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, endpoint.OpSchoolyears, req)
	if err != nil {
		return nil, err
	}
	return normalize.SchoolYears(res.Raw), nil
}

// Klassen fetches the school's class list.
func (s *Session) Klassen(ctx context.Context) ([]untis.Element, error) {
	return s.elements(ctx, endpoint.OpKlassen, untis.ElementClass)
}

// Teachers fetches the school's teacher list.
func (s *Session) Teachers(ctx context.Context) ([]untis.Element, error) {
	return s.elements(ctx, endpoint.OpTeachers, untis.ElementTeacher)
}

// Subjects fetches the school's subject list.
func (s *Session) Subjects(ctx context.Context) ([]untis.Element, error) {
	return s.elements(ctx, endpoint.OpSubjects, untis.ElementSubject)
}

// Rooms fetches the school's room list.
func (s *Session) Rooms(ctx context.Context) ([]untis.Element, error) {
	return s.elements(ctx, endpoint.OpRooms, untis.ElementRoom)
}

// Students fetches the school's student list. Servers reject the call for
// accounts without the master-data right, which surfaces as an auth failure.
func (s *Session) Students(ctx context.Context) ([]untis.Element, error) {
	return s.elements(ctx, endpoint.OpStudents, untis.ElementStudent)
}

// elements runs one master-data list operation. Each list comes from a single
// winning candidate; results are never merged across dialects.
func (s *Session) elements(ctx context.Context, op endpoint.Operation, t untis.ElementType) ([]untis.Element, error) {
	req, err := s.authed(protocol.NoParams{})
	if err != nil {
		return nil, err
	}
	res, err := s.run(ctx, op, req)
	if err != nil {
		return nil, err
	}
	return normalize.Elements(res.Raw, t), nil
}

// SearchSchools queries the central school lookup service for schools
// matching query. It requires no login and ignores the session's tenant.
func (s *Session) SearchSchools(ctx context.Context, query string) ([]untis.SchoolInfo, error) {
	base, err := url.Parse(s.searchURL)
	if err != nil {
		return nil, fmt.Errorf("school search url: %w", err)
	}
	attempt := endpoint.Attempt{
		Candidate: endpoint.Candidate{URL: base, Dialect: endpoint.DialectJSONRPC},
		Method:    "searchSchool",
	}
	res, err := s.orch.Run(ctx, opSearchSchools, []endpoint.Attempt{attempt}, protocol.Request{
		Params: searchParams{query: query},
	})
	if err != nil {
		return nil, err
	}
	return normalize.Schools(res.Raw), nil
}

// ownElement returns the element identity tied to the credentials, defaulting
// to a student when the stored type is unknown.
func ownElement(creds untis.Credentials) (int64, untis.ElementType) {
	typ := untis.ElementStudent
	if t, ok := untis.ParseElementType(creds.ElementType); ok {
		typ = t
	}
	return creds.ElementID, typ
}

// resolveRange fills a zero or inverted range with usable bounds.
func (s *Session) resolveRange(r untis.DateRange) untis.DateRange {
	if r.Start.IsZero() {
		return weekOf(s.now())
	}
	if r.End.IsZero() || r.End.Before(r.Start) {
		r.End = r.Start.AddDate(0, 0, 6)
	}
	return r
}

// weekOf returns the Monday-to-Sunday week containing t.
func weekOf(t time.Time) untis.DateRange {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	monday := day.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
	return untis.DateRange{Start: monday, End: monday.AddDate(0, 0, 6)}
}
