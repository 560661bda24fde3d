package intent

import (
	"context"
	"fmt"
	"strings"
)

// glossaryEntry holds one word with its translations. The slice keeps
// vocabulary listings in a stable order.
type glossaryEntry struct {
	word    string
	spanish string
	french  string
	german  string
}

var glossary = []glossaryEntry{
	{"hello", "hola", "bonjour", "hallo"},
	{"goodbye", "adiós", "au revoir", "auf wiedersehen"},
	{"thank you", "gracias", "merci", "danke"},
	{"please", "por favor", "s'il vous plaît", "bitte"},
	{"yes", "sí", "oui", "ja"},
	{"no", "no", "non", "nein"},
	{"water", "agua", "eau", "wasser"},
	{"food", "comida", "nourriture", "essen"},
	{"house", "casa", "maison", "haus"},
	{"good", "bueno", "bon", "gut"},
}

// TranslationHandler translates a small fixed vocabulary into Spanish,
// French, or German. The match patterns double as extraction patterns:
// each captures the word and the target language.
type TranslationHandler struct {
	matcher
}

// NewTranslationHandler creates the translation handler.
func NewTranslationHandler() *TranslationHandler {
	return &TranslationHandler{
		matcher: matcher{
			keywords: []string{
				"translate", "translation", "spanish", "french", "german",
				"how do you say", "in spanish", "in french", "in german",
			},
			patterns: compilePatterns(
				`translate (.+?) (?:to|into) (spanish|french|german)`,
				`how do you say (.+?) in (spanish|french|german)`,
				`what is (.+?) in (spanish|french|german)`,
				`(.+?) in (spanish|french|german)`,
			),
		},
	}
}

// Kind returns KindTranslation.
func (h *TranslationHandler) Kind() Kind { return KindTranslation }

// Examples returns sample translation phrases.
func (h *TranslationHandler) Examples() []string {
	return []string{
		"How do you say hello in Spanish?",
		"Translate water to French",
		"What is goodbye in German?",
	}
}

// Handle extracts the word and target language and looks them up.
func (h *TranslationHandler) Handle(ctx context.Context, text string) (*Result, error) {
	lower := strings.ToLower(text)

	var word, language string
	for _, p := range h.patterns {
		if m := p.FindStringSubmatch(lower); len(m) == 3 {
			word = strings.TrimSpace(m[1])
			language = strings.TrimSpace(m[2])
			break
		}
	}

	if word == "" || language == "" {
		return &Result{
			Kind:         KindTranslation,
			Confidence:   0.8,
			ResponseText: "I couldn't understand what you want to translate. Try asking 'How do you say hello in Spanish?'",
			Success:      false,
		}, nil
	}

	return &Result{
		Kind:         KindTranslation,
		Confidence:   0.9,
		ResponseText: lookupTranslation(word, language),
		Success:      true,
		Payload:      map[string]any{"word": word, "language": language},
	}, nil
}

func lookupTranslation(word, language string) string {
	for _, entry := range glossary {
		if entry.word != word {
			continue
		}
		var translation string
		switch language {
		case "spanish":
			translation = entry.spanish
		case "french":
			translation = entry.french
		case "german":
			translation = entry.german
		}
		if translation == "" {
			return fmt.Sprintf("I don't know how to say '%s' in %s. I can translate to Spanish, French, or German.", word, language)
		}
		return fmt.Sprintf("'%s' in %s is '%s'", word, language, translation)
	}

	return fmt.Sprintf("I don't know how to translate '%s'. I can translate these words: %s", word, supportedWords())
}

func supportedWords() string {
	words := make([]string, len(glossary))
	for i, entry := range glossary {
		words[i] = entry.word
	}
	return strings.Join(words, ", ")
}

// Verify TranslationHandler implements Handler at compile time.
var _ Handler = (*TranslationHandler)(nil)
