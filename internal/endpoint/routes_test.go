package endpoint

import "testing"

func testCandidates(t *testing.T) []Candidate {
	t.Helper()
	candidates, err := Candidates(Tenant{Host: "example.com", School: "demo"})
	if err != nil {
		t.Fatalf("Candidates returned error: %v", err)
	}
	return candidates
}

func TestPlanAttempts_TimetableOrder(t *testing.T) {
	plan := PlanAttempts(OpTimetable, testCandidates(t))

	want := []struct {
		dialect Dialect
		method  string
	}{
		{DialectJSONRPCIntern, "getTimetable2017"},
		{DialectJSONRPC, "getTimetable"},
		{DialectRESTv3, "timetable/entries"},
		{DialectRESTv1, "timetable/weekly/data"},
	}
	if len(plan) != len(want) {
		t.Fatalf("plan = %d attempts, want %d", len(plan), len(want))
	}
	for i, w := range want {
		if plan[i].Candidate.Dialect != w.dialect || plan[i].Method != w.method {
			t.Fatalf("attempt %d = (%s, %s), want (%s, %s)",
				i, plan[i].Candidate.Dialect, plan[i].Method, w.dialect, w.method)
		}
		if plan[i].Rank != i {
			t.Fatalf("attempt %d rank = %d, want %d", i, plan[i].Rank, i)
		}
	}
}

func TestPlanAttempts_SchoolyearsOrder(t *testing.T) {
	plan := PlanAttempts(OpSchoolyears, testCandidates(t))

	want := []struct {
		dialect Dialect
		method  string
	}{
		{DialectJSONRPC, "getSchoolyears"},
		{DialectJSONRPCIntern, "getUserData2017"},
	}
	if len(plan) != len(want) {
		t.Fatalf("plan = %d attempts, want %d", len(plan), len(want))
	}
	for i, w := range want {
		if plan[i].Candidate.Dialect != w.dialect || plan[i].Method != w.method {
			t.Fatalf("attempt %d = (%s, %s), want (%s, %s)",
				i, plan[i].Candidate.Dialect, plan[i].Method, w.dialect, w.method)
		}
	}
}

func TestPlanAttempts_UnknownOperation(t *testing.T) {
	if plan := PlanAttempts(Operation("roomFinder"), testCandidates(t)); len(plan) != 0 {
		t.Fatalf("unknown operation plan = %v, want empty", plan)
	}
}

func TestPlanAttempts_SkipsMissingDialects(t *testing.T) {
	candidates := testCandidates(t)
	// Only the public JSON-RPC candidate available.
	plan := PlanAttempts(OpTimetable, candidates[:1])
	if len(plan) != 1 {
		t.Fatalf("plan = %d attempts, want 1", len(plan))
	}
	if plan[0].Method != "getTimetable" || plan[0].Rank != 0 {
		t.Fatalf("attempt = %+v, want getTimetable at rank 0", plan[0])
	}
}

func TestPrioritize(t *testing.T) {
	plan := PlanAttempts(OpTimetable, testCandidates(t))
	key := plan[1].Key() // public getTimetable

	pinned := Prioritize(plan, key)
	if pinned[0].Method != "getTimetable" {
		t.Fatalf("pinned front = %s, want getTimetable", pinned[0].Method)
	}
	if pinned[1].Method != "getTimetable2017" {
		t.Fatalf("pinned second = %s, want getTimetable2017", pinned[1].Method)
	}
	for i, a := range pinned {
		if a.Rank != i {
			t.Fatalf("pinned rank %d = %d, want %d", i, a.Rank, i)
		}
	}
	if len(pinned) != len(plan) {
		t.Fatalf("pinned length = %d, want %d", len(pinned), len(plan))
	}

	// Unknown key and already-front key leave the plan untouched.
	same := Prioritize(plan, "rest-v9 nothing")
	if len(same) != len(plan) || same[0].Method != plan[0].Method {
		t.Fatalf("unknown key changed plan: %+v", same)
	}
	front := Prioritize(plan, plan[0].Key())
	if front[0].Method != plan[0].Method {
		t.Fatalf("front key changed plan: %+v", front)
	}
}
