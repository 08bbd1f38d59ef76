package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/finance-tracker/ledger"
)

func TestInstallmentGroup_AnchorAndSiblings(t *testing.T) {
	// GIVEN: A 3-row group plus an unrelated row
	// WHEN: Looking the group up by the anchor's id
	// THEN: All 3 group rows come back, nothing else

	m, err := ledger.RecordTransaction(testState(), splitDraft(3), "", sequentialIDs())
	require.NoError(t, err)

	txs := append(m.ToCreate, expense("other", 10, ledger.NewDate(2025, time.March, 1)))

	group := ledger.InstallmentGroup(txs, m.ToCreate[0].ID)
	assert.Len(t, group, 3)
}

func TestInstallmentGroup_SingleRow_GroupOfOne(t *testing.T) {
	tx := expense("solo", 10, ledger.NewDate(2025, time.March, 1))
	group := ledger.InstallmentGroup([]ledger.Transaction{tx}, "solo")
	assert.Len(t, group, 1)
}

func TestSortByDateDesc_StableAndNonMutating(t *testing.T) {
	a := expense("a", 1, ledger.NewDate(2025, time.March, 1))
	b := expense("b", 1, ledger.NewDate(2025, time.March, 9))
	c := expense("c", 1, ledger.NewDate(2025, time.March, 9))
	in := []ledger.Transaction{a, b, c}

	sorted := ledger.SortByDateDesc(in)

	require.Len(t, sorted, 3)
	assert.Equal(t, ledger.TransactionID("b"), sorted[0].ID)
	assert.Equal(t, ledger.TransactionID("c"), sorted[1].ID)
	assert.Equal(t, ledger.TransactionID("a"), sorted[2].ID)
	// input untouched
	assert.Equal(t, ledger.TransactionID("a"), in[0].ID)
}

func TestAvatarFor(t *testing.T) {
	assert.Equal(t, "AB", ledger.AvatarFor("Whoever", "ab"))
	assert.Equal(t, "A", ledger.AvatarFor("ana", ""))
	assert.Equal(t, "É", ledger.AvatarFor("élodie", ""))
	assert.Equal(t, "", ledger.AvatarFor("", ""))
}

func TestDefaultUsers_TwoSeedProfiles(t *testing.T) {
	users := ledger.DefaultUsers()
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotEmpty(t, u.Name)
		assert.NotEmpty(t, u.Avatar)
	}
}
