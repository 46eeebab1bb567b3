package player

import (
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const bannerTemplate = `
{{ repeat 64 "=" }}
{{ "Welcome to PyMUD3" | upper }}
A world of rooms, monsters, and wandering merchants.
{{ repeat 64 "=" }}
`

var bannerOnce = sync.OnceValue(func() string {
	tmpl := template.Must(template.New("banner").Funcs(sprig.TxtFuncMap()).Parse(bannerTemplate))
	var b strings.Builder
	if err := tmpl.Execute(&b, nil); err != nil {
		return "Welcome to PyMUD3\n"
	}
	return strings.TrimLeft(b.String(), "\n") + "\n"
})

// banner renders the login greeting shown to pull connections.
func banner() string {
	return bannerOnce()
}
