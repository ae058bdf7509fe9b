package chartab_test

import (
	"testing"

	"github.com/kshetline/fortissimo-html-sub000/chartab"
	"github.com/stretchr/testify/assert"
)

func TestIsHTMLWhitespace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\r', '\f'} {
		assert.True(t, chartab.IsHTMLWhitespace(r))
	}
	assert.False(t, chartab.IsHTMLWhitespace('a'))
	assert.False(t, chartab.IsHTMLWhitespace(' '))
}

func TestIsOtherWhitespace(t *testing.T) {
	assert.True(t, chartab.IsOtherWhitespace(' '))
	assert.True(t, chartab.IsOtherWhitespace('　'))
	assert.True(t, chartab.IsOtherWhitespace(' '))
	assert.False(t, chartab.IsOtherWhitespace(' '))
}

func TestIsInvalid(t *testing.T) {
	assert.True(t, chartab.IsInvalid(0x0B))
	assert.True(t, chartab.IsInvalid(0x7F))
	assert.False(t, chartab.IsInvalid('\t'))
	assert.False(t, chartab.IsInvalid('a'))
}

func TestIsMarkupStart(t *testing.T) {
	assert.True(t, chartab.IsMarkupStart('a'))
	assert.True(t, chartab.IsMarkupStart('/'))
	assert.True(t, chartab.IsMarkupStart('!'))
	assert.True(t, chartab.IsMarkupStart('?'))
	assert.False(t, chartab.IsMarkupStart(' '))
	assert.False(t, chartab.IsMarkupStart('1'))
}

func TestIsPCENStrictVsLoose(t *testing.T) {
	assert.True(t, chartab.IsPCENStrict('-'))
	assert.True(t, chartab.IsPCENStrict('a'))
	assert.False(t, chartab.IsPCENStrict(' '))

	assert.True(t, chartab.IsPCENLoose('@'))
	assert.False(t, chartab.IsPCENLoose(' '))
	assert.False(t, chartab.IsPCENLoose('>'))
}

func TestColumnWidth(t *testing.T) {
	assert.Equal(t, 5, chartab.ColumnWidth("hello"))
	// combining acute accent should not add to the width
	assert.Equal(t, 1, chartab.ColumnWidth("é"))
}
