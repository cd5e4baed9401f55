package rick

import (
	"net/mail"
	"text/template"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/rick/analysis"
	"github.com/trezcool/gradebook/core/rick/format"
)

const DigestSubject = "Your class digest"

var digestTemplate = template.Must(template.New("digest").Parse(`Hi {{.Name}},

Here is where your class stands today.

{{.Body}}

Ask Rick for details on any student or assignment.
`))

// DigestEmail returns the templated digest message addressed to the teacher.
func DigestEmail(to mail.Address, d analysis.Digest) *core.EmailMessage {
	name := to.Name
	if name == "" {
		name = "there"
	}
	return &core.EmailMessage{
		To:       []mail.Address{to},
		Subject:  DigestSubject,
		Template: digestTemplate,
		TemplateData: map[string]string{
			"Name": name,
			"Body": format.Digest(d),
		},
	}
}
