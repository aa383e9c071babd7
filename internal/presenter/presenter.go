// Package presenter renders conversion results for Telegram.
package presenter

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/converter"
)

// markdownV2Special is every character Telegram MarkdownV2 requires escaping
// outside of entities, including the escape character itself.
const markdownV2Special = "_*[]()~`>#+-=|{}.!\\"

// Escape prefixes each MarkdownV2 special character in s with a backslash.
// Apply it once, to dynamic text only.
func Escape(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(markdownV2Special, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Render builds the MarkdownV2 reply for res. Template markup is literal; every
// inserted value goes through Escape.
func Render(res *converter.Result, loc calendar.Locale, footer string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s* ➜ *%s*\n\n",
		Escape(calendar.EraName(res.Input.Era, loc)),
		Escape(calendar.EraName(res.Output.Era, loc)),
	)
	fmt.Fprintf(&sb, "📅 *%s*\n%s\n\n", Escape(res.Input.Short()), Escape(res.Input.Long(loc)))
	fmt.Fprintf(&sb, "🔁 *%s*\n%s", Escape(res.Output.Short()), Escape(res.Output.Long(loc)))

	if footer != "" {
		fmt.Fprintf(&sb, "\n\n_%s_", Escape(footer))
	}
	return sb.String()
}

// RenderPlain is the unformatted reply used by the CLI.
func RenderPlain(res *converter.Result, loc calendar.Locale) string {
	return fmt.Sprintf("%s (%s) => %s (%s)\n%s\n%s\n",
		res.Input.Short(), calendar.EraName(res.Input.Era, calendar.LocaleEnglish),
		res.Output.Short(), calendar.EraName(res.Output.Era, calendar.LocaleEnglish),
		res.Input.Long(loc),
		res.Output.Long(loc),
	)
}
