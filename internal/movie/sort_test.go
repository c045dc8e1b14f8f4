package movie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures() (m1, m2, m3 *Record) {
	m1 = New("ABCDtitre", nil)
	m1.Year, m1.Category, m1.Producer, m1.Director, m1.Duration = 2020, "humour", "prodo", "reatis", 101

	m2 = New("EFGH", nil)
	m2.Year, m2.Category, m2.Producer, m2.Director, m2.Duration = 2020, "drame", "prodo", "reatis", 101

	m3 = New("ABCDEFGtitre", nil)
	m3.Year, m3.Category, m3.Producer, m3.Director, m3.Duration = 2011, "humour", "prodos", "reatos", 202
	return m1, m2, m3
}

func TestSort(t *testing.T) {
	m1, m2, m3 := fixtures()

	tests := []struct {
		name string
		cmp  Comparator
		want []*Record
	}{
		{"title asc", ByTitle(true), []*Record{m3, m1, m2}},
		{"title desc", ByTitle(false), []*Record{m2, m1, m3}},
		{"year asc", ByYear(true), []*Record{m3, m1, m2}},
		{"year desc", ByYear(false), []*Record{m1, m2, m3}},
		{"category asc", ByCategory(true), []*Record{m2, m3, m1}},
		{"category desc", ByCategory(false), []*Record{m3, m1, m2}},
		{"director asc", ByDirector(true), []*Record{m1, m2, m3}},
		{"director desc", ByDirector(false), []*Record{m3, m1, m2}},
		{"duration asc", ByDuration(true), []*Record{m1, m2, m3}},
		{"duration desc", ByDuration(false), []*Record{m3, m1, m2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []*Record{m1, m2, m3}
			Sort(records, tt.cmp)
			assert.Equal(t, tt.want, records)
		})
	}
}

func TestByField(t *testing.T) {
	m1, m2, m3 := fixtures()

	c, ok := ByField("Year", true)
	require.True(t, ok)
	records := []*Record{m1, m2, m3}
	Sort(records, c)
	assert.Equal(t, []*Record{m3, m1, m2}, records)

	_, ok = ByField("rating", true)
	assert.False(t, ok)
}

func TestSelection(t *testing.T) {
	m1, m2, m3 := fixtures()
	all := []*Record{m1, m2, m3}

	assert.Equal(t, []*Record{m3}, SelectByTitle(all, "ABCDEFGtitre"))
	assert.Equal(t, []*Record{m1, m2}, SelectByYear(all, 2020, 0))
	assert.Equal(t, []*Record{m1, m2, m3}, SelectByYear(all, 2015, 5))
	assert.Equal(t, []*Record{m1, m3}, SelectByCategory(all, "humour"))
	assert.Equal(t, []*Record{m1, m2}, SelectByDuration(all, 100, 15))
	assert.Empty(t, SelectByDirector(all, "prodo"))
	assert.Equal(t, []*Record{m1, m2}, SelectByDirector(all, "reatis"))
}

func TestSelectByTitleFuzzy(t *testing.T) {
	marius := New("La Trilogie Marseillaise : Marius", nil)
	cesar := New("La Trilogie Marseillaise : César", nil)
	germinal := New("Germinal", nil)
	all := []*Record{marius, cesar, germinal}

	assert.Equal(t, []*Record{cesar}, SelectByTitleFuzzy(all, "cesar"))
	assert.Equal(t, []*Record{marius, cesar}, SelectByTitleFuzzy(all, "trilogie"))
	assert.Empty(t, SelectByTitleFuzzy(all, "zorro"))
}
