package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
	StatusPending    Status = "Pending"
)

const (
	INR Currency = "INR"
	USD Currency = "USD"
)

const (
	// DefaultUSDToINR is the fixed conversion rate used when none is configured.
	DefaultUSDToINR = 83.0

	// UnknownLabel is shown for projects without a client and for dangling assignees.
	UnknownLabel = "Unknown"
)

type (
	Status   string
	Currency string

	Date struct {
		time.Time
	}

	// Project is a billable project record. AmountUSD is always stored in USD,
	// whatever the display currency is.
	Project struct {
		ID         string
		Name       string
		Client     string // optional
		Date       Date
		AmountUSD  float64
		Notes      string // optional
		Status     Status
		AssignedTo string // TeamMember ID, may dangle
	}

	TeamMember struct {
		ID     string `yaml:"id" json:"id"`
		Name   string `yaml:"name" json:"name"`
		Avatar string `yaml:"avatar" json:"avatar"`
		Role   string `yaml:"role" json:"role"`
	}

	// ProjectPatch carries the fields of an edit. Nil fields are left untouched.
	ProjectPatch struct {
		Name       *string
		Client     *string
		Date       *Date
		AmountUSD  *float64
		Notes      *string
		Status     *Status
		AssignedTo *string
	}

	// DisplaySettings is the process-wide presentation state.
	DisplaySettings struct {
		Currency Currency
		Rate     float64 // USD -> INR
	}

	// DefaultPolicy decides status and assignee of newly created projects.
	DefaultPolicy struct {
		Status            Status
		AssignFirstMember bool
	}
)

// DefaultCreatePolicy marks new projects Pending and assigns them to the first
// member of the roster.
var DefaultCreatePolicy = DefaultPolicy{
	Status:            StatusPending,
	AssignFirstMember: true,
}

var (
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty project name")
	ErrNameTooLong     = errors.New("project name too long (max 200 characters)")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrInvalidCurrency = errors.New("invalid currency")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// NewDate creates a new Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return NewDateIn(year, month, day, time.UTC)
}

// NewDateIn creates a new Date at midnight in loc.
func NewDateIn(year, month, day int, loc *time.Location) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)}
}

// ParseDate parses a YYYY-MM-DD string at midnight in loc.
func ParseDate(s string, loc *time.Location) (Date, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusInProgress, StatusPending:
		return true
	default:
		return false
	}
}

// ParseStatus accepts the display names as well as their compact forms
// ("completed", "in_progress", "inprogress", "pending").
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(norm)
	switch norm {
	case "completed":
		return StatusCompleted, nil
	case "inprogress":
		return StatusInProgress, nil
	case "pending":
		return StatusPending, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (c Currency) Valid() bool {
	return c == INR || c == USD
}

// ParseCurrency is case-insensitive.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}
	return c, nil
}

// DefaultDisplaySettings shows INR at the default rate.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{Currency: INR, Rate: DefaultUSDToINR}
}

// Merge returns a copy of p with the non-nil patch fields applied. The ID is
// never changed.
func (p Project) Merge(patch ProjectPatch) Project {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Client != nil {
		p.Client = *patch.Client
	}
	if patch.Date != nil {
		p.Date = *patch.Date
	}
	if patch.AmountUSD != nil {
		p.AmountUSD = *patch.AmountUSD
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		p.AssignedTo = *patch.AssignedTo
	}
	return p
}

// ClientLabel is the client name, or UnknownLabel when none was given.
func (p Project) ClientLabel() string {
	if strings.TrimSpace(p.Client) == "" {
		return UnknownLabel
	}
	return p.Client
}

// Apply fills status and assignee of p from the policy when they are unset.
func (pol DefaultPolicy) Apply(p Project, roster []TeamMember) Project {
	if p.Status == "" {
		p.Status = pol.Status
	}
	if p.AssignedTo == "" && pol.AssignFirstMember && len(roster) > 0 {
		p.AssignedTo = roster[0].ID
	}
	return p
}

// FindMember looks up a roster member by ID.
func FindMember(roster []TeamMember, id string) (TeamMember, bool) {
	for _, m := range roster {
		if m.ID == id {
			return m, true
		}
	}
	return TeamMember{}, false
}

// AssigneeName resolves a weak assignee reference, degrading to UnknownLabel.
func AssigneeName(roster []TeamMember, id string) string {
	if m, ok := FindMember(roster, id); ok {
		return m.Name
	}
	return UnknownLabel
}

// FirstName is the first whitespace-delimited token of a full name.
func (m TeamMember) FirstName() string {
	fields := strings.Fields(m.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
