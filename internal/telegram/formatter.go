package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/ewanmcc/guardian-bot/internal/domain"
)

func FormatSearchPage(page *domain.SearchPage) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>Results for %q</b> (%d found)\n\n", html.EscapeString(page.Query), page.Total))

	for i, item := range page.Items {
		sb.WriteString(fmt.Sprintf("%d. <a href=\"%s\">%s</a>\n",
			i+1,
			html.EscapeString(item.URL),
			html.EscapeString(item.Title),
		))
		if item.Section != "" {
			sb.WriteString(fmt.Sprintf("   <i>%s</i>", html.EscapeString(item.Section)))
			if item.Published != nil {
				sb.WriteString(fmt.Sprintf(" · %s", item.Published.Format("2 Jan 2006")))
			}
			sb.WriteString("\n")
		} else if item.Published != nil {
			sb.WriteString(fmt.Sprintf("   %s\n", item.Published.Format("2 Jan 2006")))
		}
		if item.TrailText != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(item.TrailText)))
		}
		sb.WriteString("\n")
	}

	if page.Pages > 1 {
		sb.WriteString(fmt.Sprintf("Page %d of %d. Add page:%d to see more.",
			page.CurrentPage, page.Pages, page.CurrentPage+1))
	}
	return sb.String()
}

func FormatWatchList(watches []domain.Watch) string {
	var sb strings.Builder
	sb.WriteString("<b>Your watches:</b>\n\n")

	for i, w := range watches {
		sb.WriteString(fmt.Sprintf("%d. %q", i+1, html.EscapeString(w.Query)))
		if w.Section != "" {
			sb.WriteString(fmt.Sprintf(" in %s", html.EscapeString(w.Section)))
		}
		if w.Tag != "" {
			sb.WriteString(fmt.Sprintf(" tagged %s", html.EscapeString(w.Tag)))
		}
		sb.WriteString(fmt.Sprintf("\n   last checked %s\n\n", w.LastCheckedAt.Format("2 Jan 15:04")))
	}

	sb.WriteString(fmt.Sprintf("Total: %d of %d. Remove one with /unwatch N.", len(watches), domain.MaxWatchesPerUser))
	return sb.String()
}

func FormatNewArticles(watch domain.Watch, items []domain.ContentItem) string {
	var sb strings.Builder
	if len(items) == 1 {
		sb.WriteString(fmt.Sprintf("<b>New match for %q:</b>\n\n", html.EscapeString(watch.Query)))
	} else {
		sb.WriteString(fmt.Sprintf("<b>%d new matches for %q:</b>\n\n", len(items), html.EscapeString(watch.Query)))
	}

	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• <a href=\"%s\">%s</a>\n",
			html.EscapeString(item.URL),
			html.EscapeString(item.Title),
		))
		if item.TrailText != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(item.TrailText)))
		}
	}
	return sb.String()
}

func FormatArticles(articles []domain.Article) string {
	var sb strings.Builder
	sb.WriteString("<b>Latest from your watches:</b>\n\n")

	for _, a := range articles {
		sb.WriteString(fmt.Sprintf("• <a href=\"%s\">%s</a>\n",
			html.EscapeString(a.URL),
			html.EscapeString(a.Title),
		))
		if a.Section != "" {
			sb.WriteString(fmt.Sprintf("  <i>%s</i>\n", html.EscapeString(a.Section)))
		}
	}
	return sb.String()
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// prefer a space or newline that is not inside an HTML tag
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// stuck inside a tag, walk forward to its end
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}
