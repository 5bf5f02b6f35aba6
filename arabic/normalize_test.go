package arabic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("strips diacritics", func(t *testing.T) {
		assert.Equal(t, "الصلاه", Normalize("الصَّلَاةُ"))
	})

	t.Run("folds alef variants", func(t *testing.T) {
		assert.Equal(t, "اثم", Normalize("إثم"))
		assert.Equal(t, "ادم", Normalize("آدم"))
		assert.Equal(t, "احمد", Normalize("أحمد"))
	})

	t.Run("folds teh marbuta and yeh", func(t *testing.T) {
		assert.Equal(t, "فرىضه", Normalize("فريضة"))
	})

	t.Run("drops non arabic characters", func(t *testing.T) {
		assert.Equal(t, "صلاه السفر", Normalize("صلاة (السفر) 123 abc!"))
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "صلاه السفر", Normalize("  صلاة \t السفر \n"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
		assert.Equal(t, "", Normalize("   "))
		assert.Equal(t, "", Normalize("english only"))
	})

	t.Run("idempotent", func(t *testing.T) {
		inputs := []string{
			"الصَّلَاةُ وَالسَّلَامُ",
			"صلاة السفر",
			"أإآ ة ي",
			"mixed نص arabic",
			"",
		}
		for _, in := range inputs {
			once := Normalize(in)
			assert.Equal(t, once, Normalize(once), "input %q", in)
		}
	})
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"صلاه", "السفر"}, Tokenize("صلاه السفر"))
	assert.Empty(t, Tokenize(""))
}
