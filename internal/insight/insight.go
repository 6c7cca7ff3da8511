// Package insight turns a week of tracking data into short coaching text.
// It asks an OpenAI model through langchaingo and substitutes a
// deterministic template whenever the model is unavailable or returns
// garbage, so the endpoint never fails on LLM trouble.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"habitoid/internal/habit"
)

// Generated is the three-part weekly write-up stored per (user, week).
type Generated struct {
	Insights        string `json:"insights"`
	Recommendations string `json:"recommendations"`
	MotivationalTip string `json:"motivationalTip"`
}

type Generator struct {
	llm llms.Model
}

// New builds a generator. An empty API key yields a generator that always
// serves the fallback text.
func New(apiKey string) *Generator {
	g := &Generator{}
	if apiKey == "" {
		return g
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel("gpt-4o-mini"))
	if err != nil {
		log.Printf("insight: openai client unavailable: %v", err)
		return g
	}
	g.llm = llm
	return g
}

func (g *Generator) Weekly(ctx context.Context, s habit.WeeklySummary) Generated {
	if g.llm == nil {
		return Fallback(s)
	}
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt(s),
		llms.WithTemperature(0.7), llms.WithJSONMode())
	if err != nil {
		log.Printf("insight: generation failed, using fallback: %v", err)
		return Fallback(s)
	}
	var gen Generated
	if err := json.Unmarshal([]byte(out), &gen); err != nil ||
		gen.Insights == "" || gen.Recommendations == "" || gen.MotivationalTip == "" {
		log.Printf("insight: malformed model output, using fallback")
		return Fallback(s)
	}
	return gen
}

func prompt(s habit.WeeklySummary) string {
	return fmt.Sprintf(`As a productivity coach, analyze this user's weekly habit tracking data and provide personalized insights.

Weekly Data:
- Habits completed: %d out of %d total habits
- Completion rate: %d%%
- Current streak: %d days
- Focus sessions: %d
- Focus time: %dh %dm
- Active categories: %s
- Missed days: %d

Provide a JSON response with:
1. "insights": A detailed analysis of their performance, patterns, and areas of strength/improvement (2-3 sentences)
2. "recommendations": Specific, actionable advice to improve their habit consistency and productivity (2-3 bullet points)
3. "motivationalTip": An encouraging, personalized message that acknowledges their progress and motivates continued effort (1-2 sentences)

Keep the tone encouraging and supportive while being honest about areas for improvement.`,
		s.HabitsCompleted, s.TotalHabits, s.CompletionRate, s.CurrentStreak,
		s.FocusSessions, s.FocusMinutes/60, s.FocusMinutes%60,
		strings.Join(s.ActiveCategories, ", "), s.MissedDays)
}

// Fallback renders the templated write-up from the numbers alone. It is
// pure so regeneration for the same week yields the same text.
func Fallback(s habit.WeeklySummary) Generated {
	gen := Generated{
		Insights: fmt.Sprintf("This week you completed %d%% of your habits with a %d-day streak. Your %d focus sessions show good time management discipline.",
			s.CompletionRate, s.CurrentStreak, s.FocusSessions),
	}
	if s.CompletionRate < 70 {
		gen.Recommendations = "Consider reducing the number of habits you're tracking to focus on consistency. Start with 2-3 core habits and build from there."
	} else {
		gen.Recommendations = "Great consistency! Consider adding a new challenging habit or increasing the difficulty of existing ones."
	}
	if s.CurrentStreak > 7 {
		gen.MotivationalTip = fmt.Sprintf("Your %d-day streak shows real commitment. Each day you continue strengthens the neural pathways that make these habits automatic.", s.CurrentStreak)
	} else {
		gen.MotivationalTip = "Building habits takes time and patience. Focus on showing up consistently, even if it's just for a few minutes each day."
	}
	return gen
}
