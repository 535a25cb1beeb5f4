package dataset

import (
	"testing"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return &Table{
		Columns: []Column{{Name: "id", Kind: KindInteger}, {Name: "message", Kind: KindText}, {Name: "original", Kind: KindText}},
		Rows: []Row{
			{Int(1), Text("Water is rising"), Null()},
			{Int(2), Text("Need food"), Text("Bezwen manje")},
			{Int(1), Text("Water is rising"), Null()},
		},
	}
}

func TestTable_DropDuplicates(t *testing.T) {
	deduped, removed := sampleTable().DropDuplicates()

	assert.Equal(t, 1, removed)
	require.Equal(t, 2, deduped.Len())
	assert.Equal(t, int64(1), deduped.Rows[0][0].Int)
	assert.Equal(t, int64(2), deduped.Rows[1][0].Int)
}

func TestTable_DropDuplicates_NullDiffersFromEmptyText(t *testing.T) {
	tbl := &Table{
		Columns: []Column{{Name: "original", Kind: KindText}},
		Rows:    []Row{{Null()}, {Text("")}},
	}

	deduped, removed := tbl.DropDuplicates()
	assert.Equal(t, 0, removed)
	assert.Equal(t, 2, deduped.Len())
}

func TestTable_Drop(t *testing.T) {
	dropped, err := sampleTable().Drop("message")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "original"}, dropped.ColumnNames())
	assert.Equal(t, Row{Int(2), Text("Bezwen manje")}, dropped.Rows[1])

	_, err = sampleTable().Drop("missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestHConcat(t *testing.T) {
	right := &Table{
		Columns: []Column{{Name: "related", Kind: KindInteger}},
		Rows:    []Row{{Int(1)}, {Int(0)}, {Int(1)}},
	}

	joined, err := HConcat(sampleTable(), right)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "message", "original", "related"}, joined.ColumnNames())
	assert.Equal(t, Int(0), joined.Rows[1][3])

	right.Rows = right.Rows[:2]
	_, err = HConcat(sampleTable(), right)
	assert.ErrorIs(t, err, common.ErrShapeMismatch)
}

func TestTable_Equal(t *testing.T) {
	a := sampleTable()
	b := sampleTable()
	assert.True(t, a.Equal(b))

	b.Rows[0][1] = Text("Water is falling")
	assert.False(t, a.Equal(b))

	c := sampleTable()
	c.Columns[0].Kind = KindText
	assert.False(t, a.Equal(c))
}

func TestTable_Columns(t *testing.T) {
	tbl := sampleTable()

	ids, err := tbl.IntColumn("id")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, ids)

	_, err = tbl.IntColumn("message")
	assert.ErrorIs(t, err, common.ErrDataQuality)

	originals, err := tbl.TextColumn("original")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Bezwen manje", ""}, originals)
}

func TestTable_Append(t *testing.T) {
	tbl := New(Column{Name: "id", Kind: KindInteger})
	require.NoError(t, tbl.Append(Row{Int(7)}))
	assert.ErrorIs(t, tbl.Append(Row{Int(7), Int(8)}), common.ErrShapeMismatch)
	assert.Equal(t, 1, tbl.Len())
}
