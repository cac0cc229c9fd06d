package quota

import (
	"testing"

	"github.com/atlasfield/fieldops/internal/models"
)

func TestEvaluateUnlimited(t *testing.T) {
	for _, usage := range []int64{0, 1, 50, 1000000} {
		eval := Evaluate(-1, usage)
		if eval.Status != models.QuotaStatusActive {
			t.Fatalf("limit=-1 usage=%d: got %s want active", usage, eval.Status)
		}
		if eval.UsagePercentage != 0 {
			t.Fatalf("limit=-1 usage=%d: got percentage %v want 0", usage, eval.UsagePercentage)
		}
	}
}

func TestEvaluateZeroLimit(t *testing.T) {
	if eval := Evaluate(0, 0); eval.Status != models.QuotaStatusActive {
		t.Fatalf("limit=0 usage=0: got %s want active", eval.Status)
	}
	if eval := Evaluate(0, 1); eval.Status != models.QuotaStatusExceeded {
		t.Fatalf("limit=0 usage=1: got %s want exceeded", eval.Status)
	}
}

func TestEvaluateWarningBoundary(t *testing.T) {
	cases := []struct {
		limit  int64
		usage  int64
		status string
	}{
		{100, 74, models.QuotaStatusActive},
		{100, 75, models.QuotaStatusWarning},
		{100, 76, models.QuotaStatusWarning},
		{100, 100, models.QuotaStatusWarning},
		{100, 101, models.QuotaStatusExceeded},
		{5, 5, models.QuotaStatusWarning},
		{5, 6, models.QuotaStatusExceeded},
	}
	for _, tc := range cases {
		eval := Evaluate(tc.limit, tc.usage)
		if eval.Status != tc.status {
			t.Fatalf("limit=%d usage=%d: got %s want %s", tc.limit, tc.usage, eval.Status, tc.status)
		}
	}
}

func TestEvaluatePercentageRounding(t *testing.T) {
	eval := Evaluate(3, 1)
	if eval.UsagePercentage != 33.33 {
		t.Fatalf("limit=3 usage=1: got percentage %v want 33.33", eval.UsagePercentage)
	}
}

func TestEvaluateMonotonicInUsage(t *testing.T) {
	for _, limit := range []int64{0, 1, 5, 100} {
		prev := -1
		for usage := int64(0); usage <= 2*limit+5; usage++ {
			rank := Severity(Evaluate(limit, usage).Status)
			if rank < prev {
				t.Fatalf("limit=%d usage=%d: severity decreased from %d to %d", limit, usage, prev, rank)
			}
			prev = rank
		}
	}
}
