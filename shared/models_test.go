package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileMerge_DisjointKeysAccumulate(t *testing.T) {
	base := Profile{Mobile: Ptr("+91 90000 00001"), CreditScore: Ptr(700)}

	got := base.Merge(Profile{Coins: Ptr(5)}).Merge(Profile{Level: Ptr("Gold")})

	assert.Equal(t, Profile{
		Mobile:      Ptr("+91 90000 00001"),
		CreditScore: Ptr(700),
		Coins:       Ptr(5),
		Level:       Ptr("Gold"),
	}, got)
}

func TestProfileMerge_OrderOfDisjointPatchesDoesNotMatter(t *testing.T) {
	base := Profile{Coins: Ptr(250), Level: Ptr("Bronze")}
	a := Profile{CreditLimit: Ptr(int64(1000000))}
	b := Profile{Tenor: Ptr(12)}

	assert.Equal(t, base.Merge(a).Merge(b), base.Merge(b).Merge(a))
}

func TestProfileMerge_OverwritesPresentFields(t *testing.T) {
	base := Profile{Coins: Ptr(250)}

	got := base.Merge(Profile{Coins: Ptr(900)})

	assert.Equal(t, 900, *got.Coins)
	assert.Equal(t, 250, *base.Coins, "receiver must not be mutated")
}

func TestProfileMerge_EmptyPatchIsIdentity(t *testing.T) {
	p := Profile{
		Mobile:         Ptr("+91 98765 43210"),
		BusinessName:   Ptr("Demo Enterprises"),
		CreditLimit:    Ptr(int64(1000000)),
		AvailableLimit: Ptr(int64(850000)),
		EMI:            Ptr(8983.0),
		Coins:          Ptr(250),
		Level:          Ptr("Bronze"),
	}

	assert.Equal(t, p, p.Merge(Profile{}))
}

func TestProfileClone_DoesNotShareStorage(t *testing.T) {
	p := Profile{Coins: Ptr(250)}
	c := p.Clone()

	*c.Coins = 1

	assert.Equal(t, 250, *p.Coins)
}

func TestScreenValid(t *testing.T) {
	assert.Len(t, AllScreens, 17)
	for _, s := range AllScreens {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Screen("checkout").Valid())
	assert.False(t, Screen("").Valid())
}

func TestAction_Known(t *testing.T) {
	for _, a := range []Action{ActionNext, ActionBack, ActionSkip, ActionComplete, ActionAccept,
		ActionApplyLimitIncrease, ActionNavigate, ActionUpdate, ActionConnect} {
		assert.True(t, a.Known(), a)
	}
	assert.False(t, Action("").Known())
	assert.False(t, Action("teleport").Known())
}
