package profile

// Store holds the validated mentor and mentee records for a run. It is built
// once from the CSV files and read-only afterwards.
type Store struct {
	Mentors []*Mentor
	Mentees []*Mentee
}

func (s *Store) MentorCount() int { return len(s.Mentors) }

func (s *Store) MenteeCount() int { return len(s.Mentees) }

// TotalCapacity sums the mentee slots across all mentors.
func (s *Store) TotalCapacity() int {
	total := 0
	for _, m := range s.Mentors {
		total += m.Capacity
	}
	return total
}

// MentorByEmail returns the mentor with the given email, or nil.
func (s *Store) MentorByEmail(email string) *Mentor {
	for _, m := range s.Mentors {
		if m.Email == email {
			return m
		}
	}
	return nil
}

// MenteeByEmail returns the mentee with the given email, or nil.
func (s *Store) MenteeByEmail(email string) *Mentee {
	for _, m := range s.Mentees {
		if m.Email == email {
			return m
		}
	}
	return nil
}

// MentorEmails returns mentor emails in store order.
func (s *Store) MentorEmails() []string {
	emails := make([]string, 0, len(s.Mentors))
	for _, m := range s.Mentors {
		emails = append(emails, m.Email)
	}
	return emails
}

// MenteeEmails returns mentee emails in store order.
func (s *Store) MenteeEmails() []string {
	emails := make([]string, 0, len(s.Mentees))
	for _, m := range s.Mentees {
		emails = append(emails, m.Email)
	}
	return emails
}
