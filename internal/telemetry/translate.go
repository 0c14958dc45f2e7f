package telemetry

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Technical identifier prefixes used by the survey renderer. Option and
// question indices behind these prefixes are zero-based; user-facing
// labels are one-based.
const (
	questionIDPrefix = "question_"
	optionIDPrefix   = "option_"
)

// labels holds the analyst-facing strings. Korean is the product's
// default locale; English is provided for operator tooling.
var labels = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Korean))

	set := func(key, ko, en string) {
		b.SetString(language.Korean, key, ko)
		b.SetString(language.English, key, en)
	}

	set("Question %d", "질문 %d", "Question %d")
	set("hover", "호버", "Hover")
	set("selection_change", "선택 변경", "Selection change")
	set("idle_period", "정지 시간", "Idle period")
	set("question_time", "문항 체류 시간", "Question time")
	set("click", "클릭", "Click")
	set("%ds", "%d초", "%ds")
	set("%ds %dms", "%d초 %dms", "%ds %dms")
	set("n/a", "정보 없음", "n/a")

	return b
}()

// Translator converts internal technical identifiers and event metadata
// into the labels shown to analysts and operators.
type Translator struct {
	p *message.Printer
}

// NewTranslator returns a Translator rendering in the given locale.
// Unsupported locales fall back to Korean.
func NewTranslator(tag language.Tag) *Translator {
	return &Translator{p: message.NewPrinter(tag, message.Catalog(labels))}
}

// NewTranslatorForLocale builds a Translator from a configured locale
// string ("ko" or "en").
func NewTranslatorForLocale(locale string) *Translator {
	if locale == "en" {
		return NewTranslator(language.English)
	}
	return NewTranslator(language.Korean)
}

// UserFacingLabel maps a technical identifier to its user-facing form:
// "question_<n>" becomes a localized one-based question label,
// "option_<n>" becomes the bare one-based number, and anything else is
// returned unchanged.
func (t *Translator) UserFacingLabel(technicalID string) string {
	if n, ok := indexSuffix(technicalID, questionIDPrefix); ok {
		return t.p.Sprintf("Question %d", n+1)
	}
	if n, ok := indexSuffix(technicalID, optionIDPrefix); ok {
		return strconv.Itoa(n + 1)
	}
	return technicalID
}

// EventTypeName returns the localized display name of an event type.
// Unknown types are returned as-is.
func (t *Translator) EventTypeName(et EventType) string {
	if !KnownEventType(string(et)) {
		return string(et)
	}
	return t.p.Sprintf(string(et))
}

// FormatDuration renders a millisecond duration for human consumption,
// e.g. "750ms" or "2초 500ms".
func (t *Translator) FormatDuration(ms int64) string {
	if ms < 1000 {
		return strconv.FormatInt(ms, 10) + "ms"
	}
	seconds := ms / 1000
	remaining := ms % 1000
	if remaining == 0 {
		return t.p.Sprintf("%ds", seconds)
	}
	return t.p.Sprintf("%ds %dms", seconds, remaining)
}

// NotAvailable is the fallback string shown when a payload cannot be
// rendered.
func (t *Translator) NotAvailable() string {
	return t.p.Sprintf("n/a")
}

func indexSuffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ResolveQuestionID parses a question identifier into the backend's
// numeric id. It reports false for ids whose backend identity has not
// been established yet (empty, blank, or non-numeric strings); all
// tracking entry points no-op in that case.
func ResolveQuestionID(id string) (int, bool) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
