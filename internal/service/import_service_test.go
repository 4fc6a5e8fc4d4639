package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `projectName,clientCompany,contactName,estimatorEmail,proposalDate,dueDate,scopeName,scopeCost,scopeStatus
Harbor Renovation,Acme Corp,Jane Doe,alex@example.com,2025-02-01,2025-03-15,Demolition,"12,500",Pending
Harbor Renovation,Acme Corp,Jane Doe,alex@example.com,2025-02-01,2025-03-15,Electrical,8000,won
Depot Upgrade,Beta LLC,,,,,"Roofing",0,
`

func TestParseBidCSV(t *testing.T) {
	rows, err := ParseBidCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Harbor Renovation", rows[0].ProjectName)
	assert.Equal(t, "Acme Corp", rows[0].ClientCompany)
	assert.Equal(t, "Jane Doe", rows[0].ContactName)
	assert.Equal(t, "alex@example.com", rows[0].EstimatorEmail)
	assert.Equal(t, 12500.0, rows[0].ScopeCost)
	assert.Equal(t, "won", rows[1].ScopeStatus)
	assert.Equal(t, "Depot Upgrade", rows[2].ProjectName)
}

func TestParseBidCSVAliasHeaders(t *testing.T) {
	csv := "Project,Client,Scope,Cost\nJob A,Acme,Paving,100\n"
	rows, err := ParseBidCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Job A", rows[0].ProjectName)
	assert.Equal(t, "Acme", rows[0].ClientCompany)
	assert.Equal(t, "Paving", rows[0].ScopeName)
	assert.Equal(t, 100.0, rows[0].ScopeCost)
}

func TestParseBidCSVEmptyFile(t *testing.T) {
	_, err := ParseBidCSV(strings.NewReader(""))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGroupImportRows(t *testing.T) {
	rows, err := ParseBidCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	groups := GroupImportRows(rows)
	require.Len(t, groups, 2)

	assert.Equal(t, "Harbor Renovation||Acme Corp", groups[0].Key)
	assert.Len(t, groups[0].Scopes, 2)
	assert.Equal(t, "Demolition", groups[0].Scopes[0].Name)
	assert.Equal(t, "Electrical", groups[0].Scopes[1].Name)

	assert.Equal(t, "Depot Upgrade||Beta LLC", groups[1].Key)
	assert.Len(t, groups[1].Scopes, 1)
}

func TestGroupImportRowsSkipsRowsMissingKeys(t *testing.T) {
	rows := []ImportRow{
		{ProjectName: "Job A", ClientCompany: ""},
		{ProjectName: "", ClientCompany: "Acme"},
		{ProjectName: "Job A", ClientCompany: "Acme", ScopeName: "Paving"},
	}
	groups := GroupImportRows(rows)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Scopes, 1)
}

func TestParseCost(t *testing.T) {
	assert.Equal(t, 12500.0, parseCost("12,500"))
	assert.Equal(t, 98.5, parseCost("$98.50"))
	assert.Equal(t, 0.0, parseCost(""))
	assert.Equal(t, 0.0, parseCost("n/a"))
}
