package showcase

import (
	"strings"
	"time"

	"github.com/csheth/appsimple/internal/config"
)

// Item is one option card revealed after the hero text finishes typing.
type Item struct {
	Title       string
	Description string
	URL         string
}

// Build returns the configured items, or the stock service list when none
// are configured. Items without a title are skipped.
func Build(options []config.Option) []Item {
	items := make([]Item, 0, len(options))
	for _, opt := range options {
		title := strings.TrimSpace(opt.Title)
		if title == "" {
			continue
		}
		items = append(items, Item{
			Title:       title,
			Description: strings.TrimSpace(opt.Description),
			URL:         strings.TrimSpace(opt.URL),
		})
	}
	if len(items) > 0 {
		return items
	}
	return []Item{
		{
			Title:       "AI strategy",
			Description: "Find the processes where models pay for themselves and plan the rollout.",
			URL:         "/services",
		},
		{
			Title:       "Prompt and evaluation work",
			Description: "Measure what the model does today, then optimize prompts against that baseline.",
			URL:         "/portfolio/llm-evaluation-prompting",
		},
		{
			Title:       "Product builds",
			Description: "Ship the mobile or web app that puts the model in front of users.",
			URL:         "/portfolio",
		},
	}
}

// Delays returns when each of n items becomes visible, counted from the
// moment typing completes: item i appears after i*stagger.
func Delays(n int, stagger time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	if stagger < 0 {
		stagger = 0
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = time.Duration(i) * stagger
	}
	return out
}
