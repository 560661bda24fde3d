package intent

import "context"

// WeatherHandler answers weather questions with a fixed explanation.
// The assistant runs offline and has no live weather source.
type WeatherHandler struct {
	matcher
}

const weatherResponse = "I'm an offline assistant and don't have access to current weather data. " +
	"For weather information, I recommend checking your phone's weather app " +
	"or asking a connected assistant like Siri or Google Assistant."

// NewWeatherHandler creates the weather handler.
func NewWeatherHandler() *WeatherHandler {
	return &WeatherHandler{
		matcher: matcher{
			keywords: []string{
				"weather", "temperature", "rain", "sunny", "cloudy", "forecast",
				"hot", "cold", "warm", "cool", "humid", "windy", "storm",
			},
			patterns: compilePatterns(
				`what'?s the weather`,
				`how'?s the weather`,
				`weather (?:forecast|report|today|tomorrow)`,
				`is it (?:raining|sunny|cloudy|hot|cold)`,
				`temperature (?:today|outside|now)`,
			),
		},
	}
}

// Kind returns KindWeather.
func (h *WeatherHandler) Kind() Kind { return KindWeather }

// Examples returns sample weather phrases.
func (h *WeatherHandler) Examples() []string {
	return []string{
		"What's the weather like?",
		"Is it raining outside?",
		"How's the temperature today?",
	}
}

// Handle always succeeds with the offline explanation.
func (h *WeatherHandler) Handle(ctx context.Context, text string) (*Result, error) {
	return &Result{
		Kind:         KindWeather,
		Confidence:   0.9,
		ResponseText: weatherResponse,
		Success:      true,
		Payload:      map[string]any{"offline_response": true},
	}, nil
}

// Verify WeatherHandler implements Handler at compile time.
var _ Handler = (*WeatherHandler)(nil)
