// Package langdetect tags clipped text with an ISO 639-1 language code.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Languages is the candidate set. Keeping it small keeps the detector's
// models out of memory until they are needed.
var Languages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Russian,
	lingua.Japanese,
	lingua.Chinese,
}

// minLetters is the shortest text worth classifying.
const minLetters = 12

var (
	once     sync.Once
	detector lingua.LanguageDetector
)

func get() lingua.LanguageDetector {
	once.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(Languages...).
			WithLowAccuracyMode().
			Build()
	})
	return detector
}

// Detect returns the lowercase ISO 639-1 code of text's language, or ""
// when the text is too short or the language cannot be determined.
func Detect(text string) string {
	letters := 0
	for _, r := range text {
		if r > ' ' {
			letters++
		}
	}
	if letters < minLetters {
		return ""
	}

	lang, ok := get().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
