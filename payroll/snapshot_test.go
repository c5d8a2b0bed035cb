package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(id EmployeeID, total int64, details ...string) PaymentResult {
	return PaymentResult{EmployeeID: id, Name: string(id), TotalPayment: decimal.NewFromInt(total), Details: details}
}

func TestDiffReports_Identical(t *testing.T) {
	rows := []PaymentResult{row("a", 100, "x"), row("b", 200, "y")}
	assert.Empty(t, DiffReports(rows, rows))
}

func TestDiffReports_ComparesDecimalValueNotScale(t *testing.T) {
	before := []PaymentResult{{EmployeeID: "a", TotalPayment: decimal.RequireFromString("19002.00")}}
	after := []PaymentResult{{EmployeeID: "a", TotalPayment: decimal.NewFromInt(19002)}}
	assert.Empty(t, DiffReports(before, after))
}

func TestDiffReports_Changes(t *testing.T) {
	snapshot := []PaymentResult{
		row("a", 100, "x"),
		row("b", 200, "y"),
		row("gone", 50),
	}
	current := []PaymentResult{
		row("a", 150, "x"),
		row("b", 200, "y2"),
		row("new", 75),
	}

	diffs := DiffReports(snapshot, current)
	require.Len(t, diffs, 4)

	assert.Equal(t, RowDiff{EmployeeID: "a", Name: "a", Reason: "total", Before: "100.00", After: "150.00"}, diffs[0])
	assert.Equal(t, RowDiff{EmployeeID: "b", Name: "b", Reason: "details", Before: "y", After: "y2"}, diffs[1])
	assert.Equal(t, RowDiff{EmployeeID: "new", Name: "new", Reason: "added", After: "75.00"}, diffs[2])
	assert.Equal(t, RowDiff{EmployeeID: "gone", Name: "gone", Reason: "missing", Before: "50.00"}, diffs[3])
}
