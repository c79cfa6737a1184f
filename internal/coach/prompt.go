package coach

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"famcoach/internal/model"
)

// Prompt texts keep a bounded shape: a short profile subset, one line
// of trend notes, and task instructions. Free-text profile fields are
// clipped so an oversized intake answer cannot blow up the token bill.
const maxFieldLen = 400

// BuildInsightPrompt assembles the daily-insight generation prompt from
// the selected focus and the profile snapshot.
func BuildInsightPrompt(p *model.Profile, sel Selection) string {
	var b strings.Builder
	b.WriteString("You are a supportive family-life coach. Write one short, practical coaching insight (3-5 sentences) for the user below.\n\n")
	writeProfileSubset(&b, p)
	fmt.Fprintf(&b, "Recent activity: %s\n", sel.TrendNotes)
	fmt.Fprintf(&b, "Topic: %s\nFocus: %s\n\n", sel.Category, sel.FocusArea)
	b.WriteString("Be warm and concrete. Suggest one small action the user can take today. Do not mention that you were given this data.")
	return b.String()
}

// BuildChatPrompt assembles a reply prompt for a chat message, optionally
// anchored to a previously generated insight.
func BuildChatPrompt(p *model.Profile, insight *model.Insight, history []model.ChatMessage, message string) string {
	var b strings.Builder
	b.WriteString("You are a supportive family-life coach in an ongoing conversation with the user below.\n\n")
	writeProfileSubset(&b, p)
	if insight != nil {
		fmt.Fprintf(&b, "The conversation concerns this earlier coaching insight (%s): %s\n\n", insight.Category, clip(insight.Body))
	}
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for i := len(history) - 1; i >= 0; i-- {
			m := history[i]
			fmt.Fprintf(&b, "User: %s\nCoach: %s\n", clip(m.UserText), clip(m.Reply))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "User's new message: %s\n\n", clip(message))
	b.WriteString("Reply in 2-4 sentences, warm and practical.")
	return b.String()
}

// BuildAssistPrompt assembles a form-field assist prompt: given the
// field being filled and whatever the user typed so far, produce a
// suggestion in the user's own voice.
func BuildAssistPrompt(p *model.Profile, field, context string) string {
	var b strings.Builder
	b.WriteString("The user is filling in an intake form about their family life and wants help phrasing an answer.\n\n")
	writeProfileSubset(&b, p)
	fmt.Fprintf(&b, "Form field: %s\n", clip(field))
	if context != "" {
		fmt.Fprintf(&b, "What the user has written so far: %s\n", clip(context))
	}
	b.WriteString("\nSuggest a complete answer in first person, 1-3 sentences, plain language. Return only the suggested text.")
	return b.String()
}

func writeProfileSubset(b *strings.Builder, p *model.Profile) {
	if p == nil {
		return
	}
	b.WriteString("About the user:\n")
	if p.Name != "" {
		fmt.Fprintf(b, "- Name: %s\n", clip(p.Name))
	}
	if p.Role != "" {
		fmt.Fprintf(b, "- Role: %s\n", clip(p.Role))
	}
	if p.Age != nil {
		fmt.Fprintf(b, "- Age: %d\n", *p.Age)
	}
	if p.ChildrenCount != nil {
		fmt.Fprintf(b, "- Children: %d\n", *p.ChildrenCount)
	}
	if p.SpouseRating != nil {
		fmt.Fprintf(b, "- Partner relationship: %d/10\n", *p.SpouseRating)
	}
	if p.ChildrenRating != nil {
		fmt.Fprintf(b, "- Relationship with children: %d/10\n", *p.ChildrenRating)
	}
	if p.HealthRating != nil {
		fmt.Fprintf(b, "- Health: %d/10\n", *p.HealthRating)
	}
	if p.StressLevel != nil {
		fmt.Fprintf(b, "- Stress level: %d/10\n", *p.StressLevel)
	}
	if p.LongTermGoal != "" {
		fmt.Fprintf(b, "- Long-term goal: %s\n", clip(p.LongTermGoal))
	}
	if p.FamilyValues != "" {
		fmt.Fprintf(b, "- Family values: %s\n", clip(p.FamilyValues))
	}
	b.WriteString("\n")
}

func clip(s string) string {
	if len(s) <= maxFieldLen {
		return s
	}
	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := maxFieldLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
