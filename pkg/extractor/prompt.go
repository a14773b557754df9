package extractor

import (
	"fmt"

	"github.com/pemistahl/lingua-go"
)

// Prompt languages.
const (
	LanguageAuto    = "auto"
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

// detectSample bounds how much of a document is fed to the language detector.
const detectSample = 2000

const promptZH = `请阅读以下中文博客内容，提取出%d个最能代表这个故事的关键词。
只需要返回%d个关键词，用逗号分隔，不要其他任何解释。

博客内容：
%s
`

const promptEN = `Read the following document and extract the %d keywords that best represent it.
Return only the %d keywords, separated by commas, with no other explanation.

Document:
%s
`

// newDetector only distinguishes the two prompt languages.
func newDetector() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Chinese, lingua.English).
		Build()
}

// BuildPrompt renders the keyword instruction for text in the given language.
func BuildPrompt(language, text string, n int) string {
	if language == LanguageEnglish {
		return fmt.Sprintf(promptEN, n, n, text)
	}
	return fmt.Sprintf(promptZH, n, n, text)
}

// promptLanguage resolves "auto" by detecting the language of text.
// Chinese wins when detection is inconclusive.
func (e *Extractor) promptLanguage(text string) string {
	if e.language != LanguageAuto && e.language != "" {
		return e.language
	}
	if e.detector == nil {
		return LanguageChinese
	}

	sample := []rune(text)
	if len(sample) > detectSample {
		sample = sample[:detectSample]
	}

	lang, ok := e.detector.DetectLanguageOf(string(sample))
	if ok && lang == lingua.English {
		return LanguageEnglish
	}
	return LanguageChinese
}
