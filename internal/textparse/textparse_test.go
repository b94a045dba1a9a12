package textparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twpulse/internal/numeric"
)

type pair struct {
	name  string
	value int64
}

func pairSpec(maxRows int) TableSpec[pair] {
	return TableSpec[pair]{
		Name:    "pair",
		Header:  []string{"名稱", "數值"},
		MaxRows: maxRows,
		Stop: func(group []string) bool {
			_, ok := numeric.Int(group[1])
			return !ok
		},
		Row: func(group []string) (pair, bool) {
			v, _ := numeric.Int(group[1])
			return pair{name: group[0], value: v}, true
		},
	}
}

func TestParse(t *testing.T) {
	doc := strings.Join([]string{
		"週報表", "", "名稱", "數值",
		"甲", "1,000",
		"乙", "-200",
		"合計", "說明文字結束",
	}, "\n")

	rows, err := Parse(doc, pairSpec(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, pair{"甲", 1000}, rows[0])
	assert.Equal(t, pair{"乙", -200}, rows[1])
}

func TestSplitLines(t *testing.T) {
	doc := "  名稱\t\n\n數值\r\n\n  甲  \n"
	lines := SplitLines(doc)
	assert.Equal(t, []string{"名稱", "數值", "甲"}, lines)
}

func TestParseIdempotent(t *testing.T) {
	doc := "名稱\n數值\n甲\n1\n乙\n2\n"
	first, err := Parse(doc, pairSpec(0))
	require.NoError(t, err)
	second, err := Parse(doc, pairSpec(0))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParsePicksBestHeaderOccurrence(t *testing.T) {
	// The header occurs twice: the first occurrence is followed by a single
	// valid row, the second by three. The richer occurrence must win.
	doc := strings.Join([]string{
		"名稱", "數值",
		"甲", "1",
		"註", "無資料",
		"名稱", "數值",
		"乙", "2",
		"丙", "3",
		"丁", "4",
	}, "\n")

	rows, err := Parse(doc, pairSpec(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "乙", rows[0].name)
}

func TestParseRowCap(t *testing.T) {
	doc := "名稱\n數值\n甲\n1\n乙\n2\n丙\n3\n"
	rows, err := Parse(doc, pairSpec(2))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseHeaderNotFound(t *testing.T) {
	_, err := Parse("完全不相關的文字\n而已\n", pairSpec(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
	assert.Contains(t, err.Error(), "pair")
}

func TestParseNoAdmittedRows(t *testing.T) {
	// Header present but immediately followed by non-numeric noise.
	_, err := Parse("名稱\n數值\n備註\n維護中\n", pairSpec(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestParseSkippedRowsDoNotStop(t *testing.T) {
	spec := pairSpec(0)
	// Reject names starting with a digit but keep parsing.
	spec.Row = func(group []string) (pair, bool) {
		if group[0] != "" && group[0][0] >= '0' && group[0][0] <= '9' {
			return pair{}, false
		}
		v, _ := numeric.Int(group[1])
		return pair{name: group[0], value: v}, true
	}

	doc := "名稱\n數值\n甲\n1\n2345\n99\n乙\n2\n"
	rows, err := Parse(doc, spec)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "乙", rows[1].name)
}
