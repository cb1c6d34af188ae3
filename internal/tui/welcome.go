package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/idilsaglam/breachtrack/internal/model"
)

const welcomeMarkdown = `# Welcome to Breach Tracker

Track your security breaches with progress monitoring.

Your addresses showed up in **%d** breached sites. Work through them one by one:
change the password, enable 2FA, and mark the site as secured.

| Key | Action |
| --- | --- |
| space | mark the selected site as secured |
| n | write a note (what you changed, when) |
| / | search domains |
| f, 0-4 | filter by risk level |
| c | fold a risk level |
| y | copy the site URL |
| e / E | export JSON / CSV |
| i | import a JSON export |
| ctrl+t | switch dark / light |

Progress is saved as you go. Press any key to start.
`

// renderWelcome renders the first-run screen. Falls back to the raw markdown
// when glamour fails.
func renderWelcome(domains int, theme model.Theme, width int) string {
	md := fmt.Sprintf(welcomeMarkdown, domains)
	if width <= 0 || width > 80 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(string(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
