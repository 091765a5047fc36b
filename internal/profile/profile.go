package profile

import "strings"

// Meeting preference values produced by the CSV parser.
const (
	MeetInPerson     = "in-person"
	MeetOnline       = "online"
	MeetNoPreference = "no preference"
)

// LocationUnknown marks participants who did not disclose a location.
const LocationUnknown = "Unknown"

// Person holds the fields shared by mentors and mentees. Profiles are
// immutable once loaded; strategies never write back into them.
type Person struct {
	Email             string
	Name              string
	Pronouns          string
	Program           string
	Term              string
	Location          string
	MeetingPreference string
	Topics            []string
	CareerTopics      []string
}

// FirstName returns the first whitespace-separated token of the name.
// Used by the email templates for greetings.
func (p *Person) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// TermIndex returns the leading digit of the term ("3A" -> 3) or 0 when the
// term does not start with a digit.
func (p *Person) TermIndex() int {
	if p.Term == "" {
		return 0
	}
	c := p.Term[0]
	if c < '0' || c > '9' {
		return 0
	}
	return int(c - '0')
}

// Graduate reports whether the term field marks the person as a graduate.
func (p *Person) Graduate() bool {
	return strings.Contains(strings.ToLower(p.Term), "graduate")
}

// Mentor is a participant who can take up to Capacity mentees.
type Mentor struct {
	Person
	Capacity int
}

// Mentee is a participant looking for a mentor. Returning marks mentees who
// took part in a previous round; the hybrid strategy uses it as a
// score-neutral tie-break.
type Mentee struct {
	Person
	Returning bool
}
