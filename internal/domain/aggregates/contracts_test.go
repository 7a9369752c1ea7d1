package aggregates

import "testing"

func TestContractsOwnTheirTransactions(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Contracts() {
		if c.Name == "" {
			t.Fatalf("contract without name: %+v", c)
		}
		if seen[c.Name] {
			t.Fatalf("duplicate contract %q", c.Name)
		}
		seen[c.Name] = true
		if !c.RequiresAggregateOwnedTx() {
			t.Fatalf("%s must own its write transaction", c.Name)
		}
	}
}

func TestContractTablesDoNotOverlap(t *testing.T) {
	owner := map[string]string{}
	for _, c := range Contracts() {
		if len(c.Tables) == 0 {
			t.Fatalf("%s lists no tables", c.Name)
		}
		for _, table := range c.Tables {
			if prev, ok := owner[table]; ok {
				t.Fatalf("table %q claimed by %s and %s", table, prev, c.Name)
			}
			owner[table] = c.Name
		}
	}
	if !ActionPlanAggregateContract.Writes("action_contribution_points") {
		t.Fatalf("action plan aggregate should write action_contribution_points")
	}
	if AssessmentAggregateContract.Writes("action_plans") {
		t.Fatalf("assessment aggregate must not write action_plans")
	}
}
