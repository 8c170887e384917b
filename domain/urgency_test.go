package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitMinutes_FloorsToWholeMinutes(t *testing.T) {
	req := require.New(t)
	now := time.Now()
	order := Order{CreatedAt: now.Add(-16*time.Minute - 30*time.Second)}

	req.Equal(16, WaitMinutes(order, now))
	req.Equal(0, WaitMinutes(Order{CreatedAt: now.Add(-59 * time.Second)}, now))
}

func TestClassifyUrgency_Thresholds(t *testing.T) {
	cases := []struct {
		minutes int
		want    Urgency
	}{
		{0, UrgencyNormal},
		{9, UrgencyNormal},
		{10, UrgencyUrgent},
		{14, UrgencyUrgent},
		{15, UrgencyCritical},
		{16, UrgencyCritical},
		{120, UrgencyCritical},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ClassifyUrgency(tc.minutes), "wait of %d minutes", tc.minutes)
	}
}

func TestUrgency_DisplayRank(t *testing.T) {
	req := require.New(t)

	// Critical sorts first on the kitchen display.
	req.Less(UrgencyCritical.DisplayRank(), UrgencyUrgent.DisplayRank())
	req.Less(UrgencyUrgent.DisplayRank(), UrgencyNormal.DisplayRank())
}
