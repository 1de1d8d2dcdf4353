package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTabular(t *testing.T) {
	t.Run("prefers fenced csv block", func(t *testing.T) {
		text := "Here are the transactions:\n```csv\n01-02-2024,COFFEE,3.50,out,100.00\n```\nLet me know if you need more."
		assert.Equal(t, "01-02-2024,COFFEE,3.50,out,100.00", ExtractTabular(text))
	})

	t.Run("accepts a bare fence", func(t *testing.T) {
		text := "Here you go:\n```\n01-02-2024,COFFEE,3.50,out,100.00\n```"
		assert.Equal(t, "01-02-2024,COFFEE,3.50,out,100.00", ExtractTabular(text))
	})

	t.Run("bare fence markers never leak into the block", func(t *testing.T) {
		text := "```\n01-02-2024,COFFEE,3.50,out,100.00\n```"
		got := ExtractTabular(text)
		assert.NotContains(t, got, "```")
		assert.Equal(t, "01-02-2024,COFFEE,3.50,out,100.00", got)
	})

	t.Run("unterminated fence keeps contents", func(t *testing.T) {
		text := "```csv\n01-02-2024,COFFEE,3.50,out,100.00"
		assert.Equal(t, "01-02-2024,COFFEE,3.50,out,100.00", ExtractTabular(text))
	})

	t.Run("falls back to header token scan", func(t *testing.T) {
		text := "Sure! The parsed rows follow.\nDate,Description,Amount\n01-02-2024,COFFEE,3.50"
		assert.Equal(t, "Date,Description,Amount\n01-02-2024,COFFEE,3.50", ExtractTabular(text))
	})

	t.Run("returns input unchanged when nothing matches", func(t *testing.T) {
		text := "01-02-2024,COFFEE,3.50,out,100.00"
		assert.Equal(t, text, ExtractTabular(text))
	})

	t.Run("idempotent on tabular input", func(t *testing.T) {
		inputs := []string{
			"01-02-2024,COFFEE,3.50,out,100.00",
			"Date,Description,Amount\n01-02-2024,COFFEE,3.50",
			"",
			"   \n  ",
		}
		for _, in := range inputs {
			once := ExtractTabular(in)
			assert.Equal(t, once, ExtractTabular(once), "input %q", in)
		}
	})
}
