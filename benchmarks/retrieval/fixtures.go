// ABOUTME: Deterministic fixture corpora and labeled queries for retrieval benchmarks
// ABOUTME: No network or API keys; everything runs on the fallback embedding space
package retrieval

// Fixture is one labeled chunk seeded through the real persist pipeline.
type Fixture struct {
	Label     string // stable label referenced by query ground truth
	SessionID string
	Text      string
}

// Query is a benchmark query with its expected relevant labels.
type Query struct {
	ID       string
	Text     string
	Relevant []string // fixture labels considered relevant, best first
}

// Scenario bundles a corpus with its labeled queries.
type Scenario struct {
	ID       string
	Name     string
	UserID   string
	Fixtures []Fixture
	Queries  []Query
}

// Scenarios returns the built-in benchmark scenarios.
func Scenarios() []Scenario {
	return []Scenario{
		{
			ID:     "appointments",
			Name:   "Appointment recall across sessions",
			UserID: "bench-user-1",
			Fixtures: []Fixture{
				{Label: "dentist-friday", SessionID: "s1", Text: "I have a dentist appointment Friday"},
				{Label: "dentist-monday", SessionID: "s2", Text: "Dentist appointment moved to Monday"},
				{Label: "color-blue", SessionID: "s1", Text: "My favorite color is blue"},
				{Label: "gym-schedule", SessionID: "s3", Text: "I go to the gym on Tuesdays and Thursdays"},
				{Label: "car-service", SessionID: "s3", Text: "The car needs its annual service in September"},
			},
			Queries: []Query{
				{
					ID:       "dentist",
					Text:     "When is my dentist appointment?",
					Relevant: []string{"dentist-monday", "dentist-friday"},
				},
				{
					ID:       "color",
					Text:     "What is my favorite color?",
					Relevant: []string{"color-blue"},
				},
			},
		},
		{
			ID:     "work",
			Name:   "Work context retrieval",
			UserID: "bench-user-2",
			Fixtures: []Fixture{
				{Label: "standup-time", SessionID: "w1", Text: "Daily standup is at 9:30 in the morning"},
				{Label: "deploy-freeze", SessionID: "w1", Text: "There is a deploy freeze until the end of the quarter"},
				{Label: "api-owner", SessionID: "w2", Text: "Priya owns the billing API service"},
				{Label: "lunch-place", SessionID: "w2", Text: "The team usually gets lunch at the noodle place"},
			},
			Queries: []Query{
				{
					ID:       "standup",
					Text:     "What time is the daily standup?",
					Relevant: []string{"standup-time"},
				},
				{
					ID:       "billing",
					Text:     "Who owns the billing API service?",
					Relevant: []string{"api-owner"},
				},
			},
		},
	}
}
