package agent

import "github.com/samber/lo"

// Preset is a canned question offered next to free text.
type Preset struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Question string `json:"question"`
}

var presets = []Preset{
	{"sensors", "Monitor room sensors", "Show the latest room activity of every house."},
	{"savings", "Energy saving tips", "Which houses consume more than they generate, and how could they save energy?"},
	{"consumption_today", "Consumption today", "What was the total energy consumption today?"},
	{"forecast", "Consumption forecast", "Based on the recent readings, what consumption do you expect for the next hour?"},
	{"spending", "Spending insights", "Which houses have the largest energy deficit and how large is it?"},
	{"report", "Consumption and generation report", "Give a short report of consumption and generation per house."},
}

func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// PresetQuestion looks up the question of a preset by id.
func PresetQuestion(id string) (string, bool) {
	p, ok := lo.Find(presets, func(p Preset) bool { return p.ID == id })
	return p.Question, ok
}
