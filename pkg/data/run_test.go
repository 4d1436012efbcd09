package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(method string, created time.Time) *Run {
	return &Run{
		CreatedAt:        created,
		Method:           method,
		PPISource:        "ppi.tsv",
		AnnotationSource: "fn.gaf",
		Nodes:            4,
		Edges:            3,
		Known:            1,
		TopK:             2,
		Entries: []*RunEntry{
			{Protein: "A", Score: 2.25},
			{Protein: "C", Score: 2.25},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := setupTestDB(t)

	r := testRun("hishigaki", time.Time{})
	require.NoError(t, SaveRun(db, r))
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := GetRun(db, r.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "hishigaki", got.Method)
	assert.Equal(t, "ppi.tsv", got.PPISource)
	assert.Equal(t, 4, got.Nodes)
	assert.Equal(t, 2, got.TopK)
	assert.Equal(t, r.CreatedAt.Truncate(time.Second).Unix(), got.CreatedAt.Unix())
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "A", got.Entries[0].Protein)
	assert.InDelta(t, 2.25, got.Entries[1].Score, 1e-12)
}

func TestGetRun_Missing(t *testing.T) {
	db := setupTestDB(t)
	got, err := GetRun(db, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, SaveRun(db, testRun("majority", base)))
	require.NoError(t, SaveRun(db, testRun("hishigaki", base.Add(time.Hour))))
	require.NoError(t, SaveRun(db, testRun("majority", base.Add(2*time.Hour))))

	runs, err := ListRuns(db, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))
	assert.Equal(t, "hishigaki", runs[1].Method)
	assert.Nil(t, runs[0].Entries)
}

func TestDeleteRuns(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, SaveRun(db, testRun("majority", time.Time{})))
	require.NoError(t, SaveRun(db, testRun("majority", time.Time{})))

	n, err := DeleteRuns(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	runs, err := ListRuns(db, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	var entries int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM run_entry").Scan(&entries))
	assert.Equal(t, 0, entries)
}

func TestRuns_NilDB(t *testing.T) {
	assert.Error(t, SaveRun(nil, &Run{}))
	_, err := ListRuns(nil, 1)
	assert.Error(t, err)
	_, err = GetRun(nil, "x")
	assert.Error(t, err)
	_, err = DeleteRuns(nil)
	assert.Error(t, err)
}

func TestSaveRun_NilRun(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, SaveRun(db, nil))
}
