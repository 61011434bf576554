package schema

import "strconv"

// Record is one decoded translation entry. The detail kind carries an
// additional IdiomDetected field; in the option kind it stays empty.
type Record struct {
	Seq                      int
	Num                      int
	Translation              string
	IdiomDetected            string
	FrequencyRating          string
	FrequencyRatingLocalized string
	Transliteration          string
	Explanation              string
	RecommendedVoice         string
}

// Schema defines a record kind: the ordered field labels and how the
// value at each position is written into a Record. Position in the
// cycle, not label matching, decides which field a value fills.
type Schema struct {
	Name    string
	Labels  []string
	setters []func(*Record, string)
}

// Len returns the number of fields in one record of this kind.
func (s Schema) Len() int { return len(s.setters) }

// Assign writes value into the field at pos. The numeric field falls
// back to zero on unparsable input; every other field takes the value
// verbatim, including voices outside the known enumeration.
func (s Schema) Assign(r *Record, pos int, value string) {
	s.setters[pos](r, value)
}

func setNum(r *Record, v string) {
	n, err := strconv.Atoi(v)
	if err != nil {
		n = 0
	}
	r.Num = n
}

// Option is the 7-field kind produced by multi-option translation.
func Option() Schema {
	return Schema{
		Name: "option",
		Labels: []string{
			"number", "translation", "frequency_rating",
			"frequency_rating_localized", "transliteration",
			"explanation", "recommended_voice",
		},
		setters: []func(*Record, string){
			setNum,
			func(r *Record, v string) { r.Translation = v },
			func(r *Record, v string) { r.FrequencyRating = v },
			func(r *Record, v string) { r.FrequencyRatingLocalized = v },
			func(r *Record, v string) { r.Transliteration = v },
			func(r *Record, v string) { r.Explanation = v },
			func(r *Record, v string) { r.RecommendedVoice = v },
		},
	}
}

// Detail is the 8-field kind produced by single-record explanation; it
// inserts the idiom field directly after the translation.
func Detail() Schema {
	return Schema{
		Name: "detail",
		Labels: []string{
			"number", "translation", "idiom_detected",
			"frequency_rating", "frequency_rating_localized",
			"transliteration", "explanation", "recommended_voice",
		},
		setters: []func(*Record, string){
			setNum,
			func(r *Record, v string) { r.Translation = v },
			func(r *Record, v string) { r.IdiomDetected = v },
			func(r *Record, v string) { r.FrequencyRating = v },
			func(r *Record, v string) { r.FrequencyRatingLocalized = v },
			func(r *Record, v string) { r.Transliteration = v },
			func(r *Record, v string) { r.Explanation = v },
			func(r *Record, v string) { r.RecommendedVoice = v },
		},
	}
}

// Voices lists the speech voices the generation service accepts.
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// KnownVoice reports whether v is in the accepted enumeration. The
// decoder never rejects unknown voices; callers that hand the value to
// the speech endpoint should check it first.
func KnownVoice(v string) bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}
