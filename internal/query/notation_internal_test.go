package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToChome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1丁目6-3", toChome("1-6-3"))
	assert.Equal(t, "外神田1丁目6", toChome("外神田1-6"))
	assert.Equal(t, "1丁目6-3", toChome("1丁目6-3"))
	assert.Equal(t, "123", toChome("123"))
}

func TestToHyphen(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1-6-3", toHyphen("1丁目6番3号"))
	assert.Equal(t, "1-6-3", toHyphen("1丁目6-3"))
	assert.Equal(t, "3-12", toHyphen("3番地12"))
	assert.Equal(t, "六本木6-10-1", toHyphen("六本木六丁目10-1"))
	assert.Equal(t, "2 天神", toHyphen("2丁目 天神"))
	assert.Equal(t, "1-6-3", toHyphen("1丁目 6番 3号"))
}

func TestSplitCore(t *testing.T) {
	t.Parallel()

	core, rest := splitCore("天神 2-1-1 ソラリア")
	assert.Equal(t, "2-1-1", core)
	assert.Equal(t, "天神 ソラリア", rest)

	core, rest = splitCore("名駅")
	assert.Empty(t, core)
	assert.Equal(t, "名駅", rest)
}

func TestKanjiToInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, kanjiToInt("一"))
	assert.Equal(t, 10, kanjiToInt("十"))
	assert.Equal(t, 12, kanjiToInt("十二"))
	assert.Equal(t, 20, kanjiToInt("二十"))
	assert.Equal(t, 35, kanjiToInt("三十五"))
	assert.Equal(t, 0, kanjiToInt("百"))
}
