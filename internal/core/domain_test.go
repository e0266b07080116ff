package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d, err := ParseDate("2024-03-01", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 1 || d.Location() != loc {
		t.Fatalf("unexpected date %v", d.Time)
	}
	if d.String() != "2024-03-01" {
		t.Fatalf("String() = %q", d.String())
	}
	if _, err := ParseDate("01/03/2024", loc); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Completed":   StatusCompleted,
		"in progress": StatusInProgress,
		"in_progress": StatusInProgress,
		"IN-PROGRESS": StatusInProgress,
		" pending ":   StatusPending,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Fatalf("%q expected %q, got %q (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseCurrency(t *testing.T) {
	if c, err := ParseCurrency("usd"); err != nil || c != USD {
		t.Fatalf("expected USD, got %q (err=%v)", c, err)
	}
	if _, err := ParseCurrency("EUR"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestProjectMergeKeepsID(t *testing.T) {
	p := Project{ID: "proj-1", Name: "Old", Client: "Acme", AmountUSD: 10, Status: StatusPending}
	name := "New"
	amount := 25.5
	got := p.Merge(ProjectPatch{Name: &name, AmountUSD: &amount})

	if got.ID != "proj-1" {
		t.Fatalf("ID changed to %q", got.ID)
	}
	if got.Name != "New" || got.AmountUSD != 25.5 {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Client != "Acme" || got.Status != StatusPending {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if p.Name != "Old" {
		t.Fatalf("receiver mutated")
	}
}

func TestDefaultPolicyApply(t *testing.T) {
	roster := []TeamMember{{ID: "team-1", Name: "Rohan Patel"}, {ID: "team-2", Name: "Anjali Singh"}}

	got := DefaultCreatePolicy.Apply(Project{Name: "x"}, roster)
	if got.Status != StatusPending || got.AssignedTo != "team-1" {
		t.Fatalf("defaults not applied: %+v", got)
	}

	got = DefaultCreatePolicy.Apply(Project{Status: StatusCompleted, AssignedTo: "team-2"}, roster)
	if got.Status != StatusCompleted || got.AssignedTo != "team-2" {
		t.Fatalf("explicit values overwritten: %+v", got)
	}

	got = DefaultCreatePolicy.Apply(Project{}, nil)
	if got.AssignedTo != "" {
		t.Fatalf("expected no assignee with empty roster, got %q", got.AssignedTo)
	}

	custom := DefaultPolicy{Status: StatusInProgress}
	got = custom.Apply(Project{}, roster)
	if got.Status != StatusInProgress || got.AssignedTo != "" {
		t.Fatalf("custom policy not honoured: %+v", got)
	}
}

func TestAssigneeNameDegradesForDanglingReference(t *testing.T) {
	roster := []TeamMember{{ID: "team-1", Name: "Rohan Patel"}}
	if got := AssigneeName(roster, "team-1"); got != "Rohan Patel" {
		t.Fatalf("got %q", got)
	}
	if got := AssigneeName(roster, "team-9"); got != UnknownLabel {
		t.Fatalf("expected %q for removed member, got %q", UnknownLabel, got)
	}
}

func TestClientLabel(t *testing.T) {
	if got := (Project{Client: "  "}).ClientLabel(); got != UnknownLabel {
		t.Fatalf("got %q", got)
	}
	if got := (Project{Client: "Globex"}).ClientLabel(); got != "Globex" {
		t.Fatalf("got %q", got)
	}
}

func TestFirstName(t *testing.T) {
	cases := map[string]string{
		"Vikram Choudhury": "Vikram",
		"Cher":             "Cher",
		"":                 "",
	}
	for in, want := range cases {
		if got := (TeamMember{Name: in}).FirstName(); got != want {
			t.Fatalf("%q expected %q, got %q", in, want, got)
		}
	}
}

func TestMonthKey(t *testing.T) {
	jan := MonthKey{Year: 2024, Month: time.January}
	if prev := jan.Prev(); prev != (MonthKey{Year: 2023, Month: time.December}) {
		t.Fatalf("January rollover: got %v", prev)
	}
	if prev := (MonthKey{Year: 2024, Month: time.March}).Prev(); prev != (MonthKey{Year: 2024, Month: time.February}) {
		t.Fatalf("got %v", prev)
	}
	if !jan.Before(MonthKey{Year: 2024, Month: time.February}) || jan.Compare(jan) != 0 {
		t.Fatalf("ordering broken")
	}
	if jan.String() != "2024-01" || jan.ShortLabel() != "Jan 24" || jan.MonthLabel() != "Jan" || jan.LongLabel() != "January 2024" {
		t.Fatalf("labels: %s %s %s %s", jan.String(), jan.ShortLabel(), jan.MonthLabel(), jan.LongLabel())
	}
}

func TestProjectInputValidate(t *testing.T) {
	good := ProjectInput{
		Name:     "Website",
		Date:     NewDate(2025, 1, 1),
		Amount:   1500,
		Currency: INR,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		in   ProjectInput
		want error
	}{
		{ProjectInput{Name: " ", Date: NewDate(2025, 1, 1), Amount: 1}, ErrEmptyName},
		{ProjectInput{Name: "a", Amount: 1}, ErrInvalidDate},
		{ProjectInput{Name: "a", Date: NewDate(2025, 1, 1), Amount: 0}, ErrInvalidAmount},
		{ProjectInput{Name: "a", Date: NewDate(2025, 1, 1), Amount: -5}, ErrInvalidAmount},
		{ProjectInput{Name: "a", Date: NewDate(2025, 1, 1), Amount: 1, Currency: "EUR"}, ErrInvalidCurrency},
		{ProjectInput{Name: "a", Date: NewDate(2025, 1, 1), Amount: 1, Status: "Done"}, ErrInvalidStatus},
	}
	for i, tc := range bads {
		err := tc.in.Validate()
		if !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
		if !IsValidationError(err) {
			t.Fatalf("case %d: %v not recognised as validation error", i, err)
		}
	}
}
