package services

import "math/rand"

// motivationalQuotes is the fixed pool shown on the portal dashboard.
var motivationalQuotes = []string{
	"Success is the sum of small efforts repeated day in and day out.",
	"The only way to do great work is to love what you do.",
	"Innovation distinguishes between a leader and a follower.",
	"Don't be afraid to give up the good to go for the great.",
	"The future belongs to those who believe in the beauty of their dreams.",
	"Excellence is not a skill, it's an attitude.",
	"The harder you work, the luckier you get.",
	"Dream big and dare to fail.",
}

// MotivationalQuote picks one quote using the caller-supplied
// randomness source, keeping the selection deterministic under test.
func MotivationalQuote(rng *rand.Rand) string {
	return motivationalQuotes[rng.Intn(len(motivationalQuotes))]
}
