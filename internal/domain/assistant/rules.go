package assistant

import "strings"

type rule struct {
	keywords    []string
	reply       string
	suggestions []string
}

// rules are checked in order; the first keyword hit wins.
var rules = []rule{
	{
		keywords:    []string{"budget", "cost", "money", "expensive", "cheap", "afford"},
		reply:       "A common split is about 35% for accommodation, 25% for food, 20% for local transport, 15% for activities and 5% kept aside for extras. Try the budget planner to get exact amounts for your trip length and group size.",
		suggestions: []string{"Allocate my budget", "Which hotels fit a mid-range budget?"},
	},
	{
		keywords:    []string{"weather", "rain", "temperature", "forecast", "climate", "hot", "cold"},
		reply:       "Check the daily forecast for your destination before fixing outdoor days. Put museums and indoor sights on days with a high chance of rain and keep early mornings for walking tours when it is hot.",
		suggestions: []string{"Show the weather forecast"},
	},
	{
		keywords:    []string{"hotel", "stay", "accommodation", "hostel", "room"},
		reply:       "Staying near the centre usually saves more in travel time than it costs. Compare hotels by cluster: budget, mid-range and premium options are grouped by price, rating and distance from the centre.",
		suggestions: []string{"Search hotels", "Cluster hotels by price"},
	},
	{
		keywords:    []string{"food", "eat", "restaurant", "dinner", "lunch", "breakfast", "cuisine"},
		reply:       "Plan lunch around 13:00 near your midday sight and keep dinner close to your hotel. Local markets and busy street stalls are usually the best value for trying regional dishes.",
		suggestions: []string{"Recommend food experiences"},
	},
	{
		keywords:    []string{"transport", "metro", "taxi", "bus", "train", "drive", "route", "get around"},
		reply:       "Group nearby attractions on the same day and let the route optimizer order them. Public transit is often fastest in dense city centres while a taxi is worth it for far-apart stops late in the day.",
		suggestions: []string{"Optimize my route"},
	},
	{
		keywords:    []string{"itinerary", "plan", "schedule", "day trip", "days"},
		reply:       "Start each day around 09:00, fit three or four attractions with breaks in between and leave the evening free. Generate an itinerary and then balance the days if one looks crowded.",
		suggestions: []string{"Generate an itinerary", "Balance my days"},
	},
	{
		keywords:    []string{"hello", "hi", "hey", "namaste"},
		reply:       "Hello! Tell me where you are heading and I can help with attractions, budget, hotels, weather and a day-by-day plan.",
		suggestions: []string{"Plan a 3 day trip", "Allocate my budget"},
	},
}

const defaultReply = "I can help with attractions, budgets, hotels, routes, weather and day-by-day itineraries. Ask about any of these for your destination."

// ruleReply answers from keyword rules when no language model is available.
func ruleReply(message string, trip *TripContext) (string, []string) {
	words := tokenize(message)
	text := " " + strings.Join(words, " ") + " "
	for _, r := range rules {
		for _, kw := range r.keywords {
			if matches(words, text, kw) {
				return withDestination(r.reply, trip), r.suggestions
			}
		}
	}
	return withDestination(defaultReply, trip), []string{"Recommend attractions", "Plan my itinerary"}
}

func tokenize(message string) []string {
	fields := strings.Fields(strings.ToLower(message))
	out := fields[:0]
	for _, f := range fields {
		if w := strings.Trim(f, "?!.,;:'\"()"); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// matches accepts whole words, phrases, and inflections such as "hotels"
// for keywords of four letters or more.
func matches(words []string, text, kw string) bool {
	if strings.Contains(kw, " ") {
		return strings.Contains(text, " "+kw+" ")
	}
	for _, w := range words {
		if w == kw || (len(kw) >= 4 && strings.HasPrefix(w, kw)) {
			return true
		}
	}
	return false
}

func withDestination(reply string, trip *TripContext) string {
	if trip == nil || strings.TrimSpace(trip.Destination) == "" {
		return reply
	}
	return "For " + strings.TrimSpace(trip.Destination) + ": " + reply
}
