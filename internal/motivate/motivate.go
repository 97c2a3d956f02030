// Package motivate holds the static motivational content shown alongside
// the tracker views.
package motivate

import "math/rand/v2"

// Quotes shown one at a time, picked at random.
var Quotes = []string{
	"The expert in anything was once a beginner.",
	"Believe you can and you're halfway there.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"The only way to do great work is to love what you do.",
	"Your future is created by what you do today, not tomorrow.",
}

// Tips is the full study-tips list, shown as-is.
var Tips = []string{
	"Plan your study schedule and stick to it.",
	"Use active recall and spaced repetition techniques.",
	"Practice with past papers regularly.",
	"Take short breaks to avoid burnout.",
	"Stay hydrated and get enough sleep.",
	"Focus on understanding concepts rather than rote memorization.",
	"Join study groups or online forums for discussions.",
	"Use different learning resources like textbooks, videos, and online materials.",
	"Regularly test yourself to track progress.",
	"Stay positive and believe in your preparation.",
}

// RandomQuote returns one quote at random.
func RandomQuote() string {
	return Quotes[rand.IntN(len(Quotes))]
}
