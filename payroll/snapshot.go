package payroll

// RowDiff is one employee whose recomputed row no longer matches the snapshot.
type RowDiff struct {
	EmployeeID EmployeeID
	Name       string
	Reason     string // "missing", "added", "total", "details"
	Before     string
	After      string
}

// DiffReports compares a stored report against a fresh computation.
// Rows are matched by employee ID; the result follows the order of current,
// then snapshot rows that disappeared.
func DiffReports(snapshot, current []PaymentResult) []RowDiff {
	prev := make(map[EmployeeID]PaymentResult, len(snapshot))
	for _, r := range snapshot {
		prev[r.EmployeeID] = r
	}

	var diffs []RowDiff
	seen := make(map[EmployeeID]bool, len(current))
	for _, cur := range current {
		seen[cur.EmployeeID] = true
		old, ok := prev[cur.EmployeeID]
		switch {
		case !ok:
			diffs = append(diffs, RowDiff{EmployeeID: cur.EmployeeID, Name: cur.Name, Reason: "added",
				After: cur.TotalPayment.StringFixed(2)})
		case !old.TotalPayment.Equal(cur.TotalPayment):
			diffs = append(diffs, RowDiff{EmployeeID: cur.EmployeeID, Name: cur.Name, Reason: "total",
				Before: old.TotalPayment.StringFixed(2), After: cur.TotalPayment.StringFixed(2)})
		case old.CalculationDetails() != cur.CalculationDetails():
			diffs = append(diffs, RowDiff{EmployeeID: cur.EmployeeID, Name: cur.Name, Reason: "details",
				Before: old.CalculationDetails(), After: cur.CalculationDetails()})
		}
	}
	for _, old := range snapshot {
		if !seen[old.EmployeeID] {
			diffs = append(diffs, RowDiff{EmployeeID: old.EmployeeID, Name: old.Name, Reason: "missing",
				Before: old.TotalPayment.StringFixed(2)})
		}
	}
	return diffs
}
