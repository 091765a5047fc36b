package profile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ColumnMap maps profile fields to column indexes in the form export.
// Indexes follow the Google Forms response sheets; adjust when the form
// changes.
type ColumnMap struct {
	Email             int
	Name              int
	Pronouns          int
	Program           int
	Term              int
	Location          int
	MeetingPreference int
	Topics            int
	CareerTopics      int
	MaxMentees        int // mentors only, -1 for mentees
	Returning         int // mentees only, -1 when the form has no such column
}

// DefaultMentorColumns matches the mentor response sheet layout.
func DefaultMentorColumns() ColumnMap {
	return ColumnMap{
		Email:             1,
		Name:              2,
		Pronouns:          3,
		Program:           4,
		Term:              5,
		Location:          6,
		MeetingPreference: 7,
		Topics:            8,
		CareerTopics:      9,
		MaxMentees:        10,
		Returning:         -1,
	}
}

// DefaultMenteeColumns matches the mentee response sheet layout.
func DefaultMenteeColumns() ColumnMap {
	return ColumnMap{
		Email:             1,
		Name:              2,
		Pronouns:          3,
		Program:           4,
		Term:              5,
		Location:          6,
		MeetingPreference: 7,
		Topics:            8,
		CareerTopics:      9,
		MaxMentees:        -1,
		Returning:         10,
	}
}

func (c ColumnMap) max() int {
	indexes := []int{
		c.Email, c.Name, c.Pronouns, c.Program, c.Term,
		c.Location, c.MeetingPreference, c.Topics, c.CareerTopics,
		c.MaxMentees,
	}
	m := 0
	for _, i := range indexes {
		if i > m {
			m = i
		}
	}
	return m
}

// LoadStore reads both response sheets and returns a validated Store. Any
// malformed row aborts with a MalformedProfileError.
func LoadStore(mentorFile, menteeFile string) (*Store, error) {
	mentorRows, err := readRows(mentorFile)
	if err != nil {
		return nil, err
	}
	mentors, err := parseMentors(mentorFile, mentorRows, DefaultMentorColumns())
	if err != nil {
		return nil, err
	}

	menteeRows, err := readRows(menteeFile)
	if err != nil {
		return nil, err
	}
	mentees, err := parseMentees(menteeFile, menteeRows, DefaultMenteeColumns())
	if err != nil {
		return nil, err
	}

	return &Store{Mentors: mentors, Mentees: mentees}, nil
}

// readRows returns the data rows of a response sheet, header skipped.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Forms exports keep ragged rows when trailing answers are empty.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func parseMentors(file string, rows [][]string, cols ColumnMap) ([]*Mentor, error) {
	mentors := make([]*Mentor, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		rowNum := i + 2 // header is row 1
		if blankRow(row) {
			continue
		}

		person, err := parsePerson(file, rowNum, row, cols)
		if err != nil {
			return nil, err
		}

		capacity, err := parseCapacity(file, rowNum, row, cols.MaxMentees)
		if err != nil {
			return nil, err
		}

		if seen[person.Email] {
			return nil, &MalformedProfileError{File: file, Row: rowNum, Field: "email", Reason: "duplicate email " + person.Email}
		}
		seen[person.Email] = true

		mentors = append(mentors, &Mentor{Person: *person, Capacity: capacity})
	}

	return mentors, nil
}

func parseMentees(file string, rows [][]string, cols ColumnMap) ([]*Mentee, error) {
	mentees := make([]*Mentee, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for i, row := range rows {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		person, err := parsePerson(file, rowNum, row, cols)
		if err != nil {
			return nil, err
		}

		if seen[person.Email] {
			return nil, &MalformedProfileError{File: file, Row: rowNum, Field: "email", Reason: "duplicate email " + person.Email}
		}
		seen[person.Email] = true

		returning := false
		if cols.Returning >= 0 {
			returning = parseYes(cell(row, cols.Returning))
		}

		mentees = append(mentees, &Mentee{Person: *person, Returning: returning})
	}

	return mentees, nil
}

func parsePerson(file string, rowNum int, row []string, cols ColumnMap) (*Person, error) {
	email := strings.TrimSpace(cell(row, cols.Email))
	if email == "" {
		return nil, &MalformedProfileError{File: file, Row: rowNum, Field: "email", Reason: "empty"}
	}

	name := strings.TrimSpace(cell(row, cols.Name))
	if name == "" {
		return nil, &MalformedProfileError{File: file, Row: rowNum, Field: "name", Reason: "empty"}
	}

	return &Person{
		Email:             email,
		Name:              name,
		Pronouns:          strings.TrimSpace(cell(row, cols.Pronouns)),
		Program:           strings.TrimSpace(cell(row, cols.Program)),
		Term:              strings.TrimSpace(cell(row, cols.Term)),
		Location:          ParseLocation(cell(row, cols.Location)),
		MeetingPreference: ParseMeetingPreference(cell(row, cols.MeetingPreference)),
		Topics:            ParseList(cell(row, cols.Topics)),
		CareerTopics:      ParseList(cell(row, cols.CareerTopics)),
	}, nil
}

func parseCapacity(file string, rowNum int, row []string, col int) (int, error) {
	raw := strings.TrimSpace(cell(row, col))
	if raw == "" {
		return 0, &MalformedProfileError{File: file, Row: rowNum, Field: "max mentees", Reason: "empty"}
	}

	capacity, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &MalformedProfileError{File: file, Row: rowNum, Field: "max mentees", Reason: "not a number: " + raw}
	}
	if capacity < 1 {
		return 0, &MalformedProfileError{File: file, Row: rowNum, Field: "max mentees", Reason: "must be at least 1"}
	}

	return capacity, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseLocation interprets the answer to "Are you based in Waterloo this
// term? If not, which city are you based in?".
func ParseLocation(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return LocationUnknown
	}

	lower := strings.ToLower(value)
	switch {
	case lower == "yes":
		return "Waterloo"
	case strings.Contains(lower, "no (and prefer not to say)"):
		return LocationUnknown
	case strings.HasPrefix(lower, "no"):
		return "Not Waterloo"
	default:
		// Likely a city name.
		return titleCase(lower)
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ParseMeetingPreference interprets the answer to "Would you prefer to match
// with a mentor/mentee you can meet up with in person?".
func ParseMeetingPreference(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))

	switch {
	case strings.Contains(lower, "yes") && strings.Contains(lower, "in person"):
		return MeetInPerson
	case strings.Contains(lower, "no") && strings.Contains(lower, "online"):
		return MeetOnline
	default:
		return MeetNoPreference
	}
}

// ParseList splits a comma- or semicolon-delimited answer into a trimmed set.
func ParseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	value = strings.ReplaceAll(value, ";", ",")
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			items = append(items, p)
		}
	}
	return items
}

func parseYes(value string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "yes")
}
