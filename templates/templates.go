// Package templates holds the site pages and notification emails. Each view
// is an embedded html/template file exposed as a templ.Component, so handlers
// render with Render(ctx, w) and the notifier renders into a buffer.
package templates

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"

	"github.com/a-h/templ"

	"github.com/AlexTLDR/boda/internal/i18n"
)

//go:embed *.html static
var files embed.FS

var funcs = template.FuncMap{
	"plural": i18n.Plural,
	"party":  PartyLabel,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "—"
		}
		return s
	},
	// tel links a dictionary phone number; html/template would otherwise
	// reject the scheme.
	"tel": func(phone string) template.URL {
		return template.URL("tel:" + strings.ReplaceAll(phone, " ", ""))
	},
	// staying renders the tri-state answer as Sí, No or a dash.
	"staying": func(v *bool) string {
		switch {
		case v == nil:
			return "—"
		case *v:
			return "Sí"
		default:
			return "No"
		}
	},
}

var (
	homeTmpl      = page("home.html")
	rsvpTmpl      = page("rsvp.html")
	loginTmpl     = standalone("login.html")
	dashboardTmpl = standalone("dashboard.html")
	organizerTmpl = standalone("email_organizer.html")
	guestTmpl     = standalone("email_guest.html")
)

// page parses a site page together with the shared layout.
func page(name string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files, "layout.html", name))
}

func standalone(name string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).ParseFS(files, name))
}

// Static returns the embedded stylesheet and scripts.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Home(p HomePage) templ.Component {
	return templ.FromGoHTML(homeTmpl, p)
}

func RSVP(p RSVPPage) templ.Component {
	return templ.FromGoHTML(rsvpTmpl, p)
}

func Login(p LoginPage) templ.Component {
	return templ.FromGoHTML(loginTmpl, p)
}

func Dashboard(p DashboardPage) templ.Component {
	return templ.FromGoHTML(dashboardTmpl, p)
}

func OrganizerEmail(p OrganizerSummary) templ.Component {
	return templ.FromGoHTML(organizerTmpl, p)
}

func GuestEmail(p GuestConfirmation) templ.Component {
	return templ.FromGoHTML(guestTmpl, p)
}
