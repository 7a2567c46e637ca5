package main

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"credinews/models"
)

func escHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func clamp(n, max int) int {
	if n > max {
		return max
	}
	return n
}

func FormatResult(r *models.AnalysisResult, sourceLabel string) string {
	score := int(r.CredibilityScore + 0.5)
	var emoji, label string
	switch {
	case score < 40:
		emoji = "🔴"
		label = "POTENTIALLY FAKE"
	case score < 70:
		emoji = "🟡"
		label = "QUESTIONABLE"
	default:
		emoji = "🟢"
		label = "LIKELY AUTHENTIC"
	}

	var b strings.Builder

	// Source label (for forwarded messages)
	if sourceLabel != "" {
		b.WriteString(fmt.Sprintf("📢 <b>Source:</b> %s\n", sourceLabel))
	}

	// Header
	b.WriteString(fmt.Sprintf("%s <b>%d/100 — %s</b>\n", emoji, score, label))

	// Score bar, ten blocks
	filled := clamp(score/10, 10)
	empty := 10 - filled
	b.WriteString("<code>[")
	b.WriteString(strings.Repeat("█", filled))
	b.WriteString(strings.Repeat("░", empty))
	b.WriteString(fmt.Sprintf("]</code> confidence %d%%\n", int(r.Confidence+0.5)))

	if r.Verdict != "" {
		b.WriteString(fmt.Sprintf("\n⚖️ <b>Verdict:</b> %s\n", escHTML(r.Verdict)))
	}

	if r.LevelInfo != nil && r.LevelInfo.Recommendation != "" {
		b.WriteString(fmt.Sprintf("💡 %s\n", escHTML(r.LevelInfo.Recommendation)))
	}

	// Fact checks
	if len(r.FactChecks) > 0 {
		b.WriteString("\n🔎 <b>Fact checks:</b>\n")
		for _, fc := range r.FactChecks[:clamp(len(r.FactChecks), 3)] {
			line := fc.Rating
			if fc.Claimant != "" {
				line += " — " + fc.Claimant
			}
			if fc.URL != "" {
				b.WriteString(fmt.Sprintf("• <a href=\"%s\">%s</a>\n", fc.URL, escHTML(line)))
			} else {
				b.WriteString(fmt.Sprintf("• %s\n", escHTML(line)))
			}
		}
	}

	// Account risk
	if p := r.PoserDetection; p != nil && len(p.Flags) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ <b>Account risk (%s):</b>\n", p.RiskLevel))
		for _, flag := range p.Flags[:clamp(len(p.Flags), 3)] {
			b.WriteString(fmt.Sprintf("• %s\n", escHTML(flag)))
		}
	}

	// Source reputation
	if s := r.SourceAnalysis; s != nil && s.Domain != "" {
		b.WriteString(fmt.Sprintf("\n🌐 <b>Source:</b> %s (%s)\n", escHTML(s.Domain), escHTML(s.Credibility)))
	}

	return strings.TrimRight(b.String(), "\n")
}

func FormatProgress(events []string) string {
	if len(events) == 0 {
		return "⏳ <b>Analyzing...</b>"
	}
	last := events[len(events)-1]
	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	sp := spinner[len(events)%len(spinner)]
	return fmt.Sprintf("%s <b>Analyzing...</b>\n\n<code>%s</code>", sp, escHTML(last))
}

func GetResultKeyboard(reScanData string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if reScanData != "" {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🔄 Re-check", "rescan:"+reScanData),
		})
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
