// Package email renders and delivers the match notification messages. It
// consumes a finished assignment; it never influences matching.
package email

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spigell/mentor-match/internal/profile"
)

const mentorTemplate = `Hello {{.FirstName}}!

You have been matched for the {{.Program}} mentorship program!
Mentee: {{.OtherName}} ({{.OtherEmail}}), {{.OtherTerm}} {{.OtherProgram}}

We suggest introducing yourselves, swapping contact info, and setting up a
time to meet either in person or virtually.

Thank you for signing up to be a mentor this term!

If you have any questions feel free to reach out,
{{.Signature}}
`

const menteeTemplate = `Hello {{.FirstName}}!

You have been matched for the {{.Program}} mentorship program!
Mentor: {{.OtherName}} ({{.OtherEmail}}), {{.OtherTerm}} {{.OtherProgram}}

We suggest introducing yourselves, swapping contact info, and setting up a
time to meet either in person or virtually.

Thank you for signing up to be a mentee this term!

If you have any questions feel free to reach out,
{{.Signature}}
`

var (
	mentorTmpl = template.Must(template.New("mentor").Parse(mentorTemplate))
	menteeTmpl = template.Must(template.New("mentee").Parse(menteeTemplate))
)

// Message is one rendered email, ready for a Sender.
type Message struct {
	To      string
	Name    string
	Subject string
	Body    string
}

// Composer renders both sides of a matched pair into messages.
type Composer struct {
	// Program names the mentorship program in the templates.
	Program string
	// Signature closes every message, usually the committee name.
	Signature string
	// Subject is the subject line for both sides.
	Subject string
}

type templateData struct {
	FirstName    string
	Program      string
	OtherName    string
	OtherEmail   string
	OtherTerm    string
	OtherProgram string
	Signature    string
}

// ComposePair renders the mentor-facing and mentee-facing messages for one
// matched pair.
func (c *Composer) ComposePair(mentor *profile.Mentor, mentee *profile.Mentee) (Message, Message, error) {
	mentorMsg, err := c.render(mentorTmpl, &mentor.Person, &mentee.Person)
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("rendering mentor message: %w", err)
	}

	menteeMsg, err := c.render(menteeTmpl, &mentee.Person, &mentor.Person)
	if err != nil {
		return Message{}, Message{}, fmt.Errorf("rendering mentee message: %w", err)
	}

	return mentorMsg, menteeMsg, nil
}

func (c *Composer) render(tmpl *template.Template, to, other *profile.Person) (Message, error) {
	var body strings.Builder
	err := tmpl.Execute(&body, templateData{
		FirstName:    to.FirstName(),
		Program:      c.Program,
		OtherName:    other.Name,
		OtherEmail:   other.Email,
		OtherTerm:    other.Term,
		OtherProgram: other.Program,
		Signature:    c.Signature,
	})
	if err != nil {
		return Message{}, err
	}

	subject := c.Subject
	if subject == "" {
		subject = "Mentorship match"
	}

	return Message{
		To:      to.Email,
		Name:    to.Name,
		Subject: subject,
		Body:    body.String(),
	}, nil
}
