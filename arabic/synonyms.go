package arabic

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// defaultSynonyms is the built-in term-relation table, covering the
// vocabulary that dominates the indexed lectures. Keys and values are
// stored in normalized form.
var defaultSynonyms = map[string][]string{
	"صلاه":  {"صلوات", "الصلاه", "فرىضه"},
	"سفر":   {"سفار", "رحله", "سفره", "مسافر"},
	"حج":    {"حجه", "حجج", "الحج", "حاج"},
	"صوم":   {"صىام", "صائم", "الصوم", "رمضان"},
	"زكاه":  {"زكوات", "الزكاه", "صدقه"},
	"وضوء":  {"طهاره", "تطهر", "الوضوء"},
	"قران":  {"القران", "كتاب الله", "المصحف"},
	"سنه":   {"سنن", "حدىث", "نبوى"},
	"دعاء":  {"ادعىه", "ذكر", "دعوه"},
	"جنازه": {"موت", "وفاه", "دفن"},
	"نكاح":  {"زواج", "عقد", "خطبه"},
	"طلاق":  {"فسخ", "انفصال", "خلع"},
	"بىع":   {"شراء", "تجاره", "معامله"},
	"ربا":   {"فائده", "رىبه", "حرام"},
	"جهاد":  {"قتال", "غزو", "مجاهد"},
	"علم":   {"تعلم", "فقه", "معرفه"},
	"ذنب":   {"معصىه", "خطا", "اثم"},
	"توبه":  {"استغفار", "ندم", "رجوع"},
	"جنه":   {"فردوس", "نعىم", "خلود"},
	"نار":   {"عذاب", "جهنم", "عقاب"},
}

// Expander expands a query into a deduplicated, order-preserving list of
// related terms using a static term-relation table.
//
// Expansion size is bounded only by table fan-out: a query whose every
// token has an entry expands to 1 + sum of the entries' lengths. With the
// built-in table that is at most a handful of terms per token, but a
// large loaded table grows composed queries proportionally.
type Expander struct {
	table map[string][]string
}

// NewExpander creates an Expander over the built-in table.
func NewExpander() *Expander {
	return &Expander{table: defaultSynonyms}
}

// NewExpanderWithTable creates an Expander over a caller-supplied table.
// Keys and values are normalized so lookups after Normalize always match.
func NewExpanderWithTable(table map[string][]string) *Expander {
	normalized := make(map[string][]string, len(table))
	for term, related := range table {
		key := Normalize(term)
		if key == "" {
			continue
		}
		values := make([]string, 0, len(related))
		for _, r := range related {
			if n := Normalize(r); n != "" {
				values = append(values, n)
			}
		}
		normalized[key] = values
	}
	return &Expander{table: normalized}
}

// LoadSynonyms reads a YAML term-relation table (term -> list of related
// terms) and returns an Expander over it.
func LoadSynonyms(r io.Reader) (*Expander, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading synonym table: %w", err)
	}

	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing synonym table: %w", err)
	}

	return NewExpanderWithTable(table), nil
}

// Expand normalizes the query and returns an ordered list starting with
// the full normalized query, followed by related terms found by looking
// up each token in the table, in token order then table order. Terms
// already present are skipped. A query with no table entries expands to
// exactly one element. Expand never fails; empty input yields an empty
// slice.
func (e *Expander) Expand(query string) []string {
	normalized := Normalize(query)
	if normalized == "" {
		return nil
	}

	terms := []string{normalized}
	seen := map[string]bool{normalized: true}

	for _, word := range Tokenize(normalized) {
		for _, related := range e.table[word] {
			if seen[related] {
				continue
			}
			terms = append(terms, related)
			seen[related] = true
		}
	}

	return terms
}
