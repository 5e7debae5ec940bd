package untisgo

import (
	"net/url"
	"strconv"
	"time"

	"github.com/PythonTilk/untisgo/internal/endpoint"
	"github.com/PythonTilk/untisgo/untis"
)

// The param builders below render one logical request for whichever dialect
// the orchestrator is currently attempting. Legacy methods want compact
// numeric dates and numeric element types; the mobile methods want ISO dates
// and upper-case type names; the REST views differ again between v1 and v3.

func compactDate(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// loginParams serves both authentication methods: the mobile key exchange
// reads {userName, password}, the legacy login {user, password, client}.
type loginParams struct {
	user     string
	password string
	client   string
}

func (p loginParams) JSONRPC(d endpoint.Dialect) map[string]any {
	if d == endpoint.DialectJSONRPCIntern {
		return map[string]any{"userName": p.user, "password": p.password}
	}
	return map[string]any{"user": p.user, "password": p.password, "client": p.client}
}

func (loginParams) RESTQuery(endpoint.Dialect) url.Values { return nil }

// elementRangeParams addresses one element over a date range, the shape of
// timetable, exam, and homework requests.
type elementRangeParams struct {
	id  int64
	typ untis.ElementType
	r   untis.DateRange
}

func (p elementRangeParams) JSONRPC(d endpoint.Dialect) map[string]any {
	if d == endpoint.DialectJSONRPCIntern {
		return map[string]any{
			"id":        p.id,
			"type":      p.typ.WireName(),
			"startDate": untis.FormatISODate(p.r.Start),
			"endDate":   untis.FormatISODate(p.r.End),
		}
	}
	return map[string]any{
		"id":        p.id,
		"type":      int(p.typ),
		"startDate": compactDate(p.r.Start),
		"endDate":   compactDate(p.r.End),
	}
}

func (p elementRangeParams) RESTQuery(d endpoint.Dialect) url.Values {
	v := url.Values{}
	if d == endpoint.DialectRESTv1 {
		v.Set("elementType", strconv.Itoa(int(p.typ)))
		v.Set("elementId", strconv.FormatInt(p.id, 10))
		v.Set("date", untis.FormatISODate(p.r.Start))
		return v
	}
	v.Set("start", untis.FormatISODate(p.r.Start))
	v.Set("end", untis.FormatISODate(p.r.End))
	if p.id != 0 {
		v.Set("resourceType", p.typ.WireName())
		v.Set("resources", strconv.FormatInt(p.id, 10))
	}
	return v
}

// rangeParams carries a bare date range.
type rangeParams struct {
	r untis.DateRange
}

func (p rangeParams) JSONRPC(d endpoint.Dialect) map[string]any {
	if d == endpoint.DialectJSONRPCIntern {
		return map[string]any{
			"startDate": untis.FormatISODate(p.r.Start),
			"endDate":   untis.FormatISODate(p.r.End),
		}
	}
	return map[string]any{
		"startDate": compactDate(p.r.Start),
		"endDate":   compactDate(p.r.End),
	}
}

func (p rangeParams) RESTQuery(endpoint.Dialect) url.Values {
	return url.Values{
		"startDate": {untis.FormatISODate(p.r.Start)},
		"endDate":   {untis.FormatISODate(p.r.End)},
	}
}

// absenceParams extends the range with the flags the mobile method requires.
type absenceParams struct {
	r untis.DateRange
}

func (p absenceParams) JSONRPC(d endpoint.Dialect) map[string]any {
	m := rangeParams{r: p.r}.JSONRPC(d)
	if d == endpoint.DialectJSONRPCIntern {
		m["includeExcused"] = true
		m["includeUnExcused"] = true
	}
	return m
}

func (p absenceParams) RESTQuery(d endpoint.Dialect) url.Values {
	return rangeParams{r: p.r}.RESTQuery(d)
}

// dayParams selects a single day.
type dayParams struct {
	day time.Time
}

func (p dayParams) JSONRPC(d endpoint.Dialect) map[string]any {
	if d == endpoint.DialectJSONRPCIntern {
		return map[string]any{"date": untis.FormatISODate(p.day)}
	}
	return map[string]any{"date": compactDate(p.day)}
}

func (p dayParams) RESTQuery(endpoint.Dialect) url.Values {
	return url.Values{"date": {untis.FormatISODate(p.day)}}
}

// searchParams is the school lookup query.
type searchParams struct {
	query string
}

func (p searchParams) JSONRPC(endpoint.Dialect) map[string]any {
	return map[string]any{"search": p.query}
}

func (searchParams) RESTQuery(endpoint.Dialect) url.Values { return nil }
