package sequence_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/findules/internal/sequence"
)

func TestFormat(t *testing.T) {
	at := time.Date(2026, time.January, 5, 14, 30, 0, 0, time.UTC)

	type testCase struct {
		name string
		kind sequence.Kind
		n    int64
		want string
	}

	tests := []testCase{
		{name: "Imprest", kind: sequence.KindImprest, n: 7, want: "IMP-2026-01-0007"},
		{name: "Reconciliation", kind: sequence.KindReconciliation, n: 123, want: "REC-2026-01-0123"},
		{name: "FuelCoupon", kind: sequence.KindFuelCoupon, n: 3, want: "FC-20260105-0003"},
		{name: "Overflow", kind: sequence.KindImprest, n: 12345, want: "IMP-2026-01-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sequence.Format(tt.kind, at, tt.n))
		})
	}
}
