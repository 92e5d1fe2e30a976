package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mend/tickbridge/internal/domain"
)

// stubRates applies the real dispatch semantics over a fixed task table
type stubRates struct {
	taskRates map[string]float64
}

func (s stubRates) UnitCost(ctx context.Context, method domain.BillingMethod, taskName string, projectRate float64, projectID int64) float64 {
	switch method {
	case domain.BillingFlatRate:
		return 0
	case domain.BillingProjectRate, domain.BillingStaffRate:
		return projectRate
	default:
		return s.taskRates[taskName]
	}
}

func acmeWebsite(method domain.BillingMethod, rate float64) ClientData {
	return ClientData{
		ClientID:    7,
		ClientName:  "Acme Inc",
		ProjectName: "Website",
		ProjectID:   12,
		ProjectRate: rate,
		BillMethod:  method,
	}
}

func TestBuildSummaryProjectRate(t *testing.T) {
	entries := []domain.TimeEntry{
		{ID: 1, TaskName: "Design", Hours: 2},
		{ID: 2, TaskName: "Support", Hours: 3},
	}

	payload := NewBuilder(stubRates{}).BuildSummary(context.Background(),
		acmeWebsite(domain.BillingProjectRate, 100), entries)

	assert.EqualValues(t, 7, payload.ClientID)
	assert.Equal(t, domain.InvoiceStatusDraft, payload.Status)
	assert.Equal(t, "Acme Inc", payload.Organization)

	require.Len(t, payload.Lines, 1)
	assert.Equal(t, "[Website]", payload.Lines[0].Description)
	assert.Equal(t, 500.0, payload.Lines[0].UnitCost) // 5 hours x 100
	assert.Equal(t, 1.0, payload.Lines[0].Quantity)
}

func TestBuildSummaryFlatRateReplacesLine(t *testing.T) {
	entries := []domain.TimeEntry{
		{ID: 1, TaskName: "Design", Hours: 2},
		{ID: 2, TaskName: "Support", Hours: 3},
	}

	payload := NewBuilder(stubRates{}).BuildSummary(context.Background(),
		acmeWebsite(domain.BillingFlatRate, 1500), entries)

	require.Len(t, payload.Lines, 1)
	assert.Equal(t, "[Website] Flat Rate", payload.Lines[0].Description)
	assert.Equal(t, 1500.0, payload.Lines[0].UnitCost)
	assert.Equal(t, 1.0, payload.Lines[0].Quantity)
}

func TestBuildSummaryTaskRate(t *testing.T) {
	rates := stubRates{taskRates: map[string]float64{"Design": 85, "Support": 40}}
	entries := []domain.TimeEntry{
		{ID: 1, TaskName: "Design", Hours: 2},  // 170
		{ID: 2, TaskName: "Support", Hours: 4}, // 160
	}

	payload := NewBuilder(rates).BuildSummary(context.Background(),
		acmeWebsite(domain.BillingTaskRate, 0), entries)

	require.Len(t, payload.Lines, 1)
	assert.Equal(t, 330.0, payload.Lines[0].UnitCost)
}

func TestBuildDetailed(t *testing.T) {
	rates := stubRates{taskRates: map[string]float64{"Design": 85}}
	entries := []domain.TimeEntry{
		{ID: 1, TaskName: "Design", Hours: 2.5},
		{ID: 2, TaskName: domain.NoTaskSelected, Hours: 1},
	}

	payload := NewBuilder(rates).BuildDetailed(context.Background(),
		acmeWebsite(domain.BillingTaskRate, 0), entries)

	require.Len(t, payload.Lines, 2)
	assert.Equal(t, "[Website]  Design", payload.Lines[0].Description)
	assert.Equal(t, 85.0, payload.Lines[0].UnitCost)
	assert.Equal(t, 2.5, payload.Lines[0].Quantity)

	// the placeholder task name is left off the description
	assert.Equal(t, "[Website]  ", payload.Lines[1].Description)
	assert.Equal(t, 0.0, payload.Lines[1].UnitCost)
}

func TestBuildDetailedFlatRateAppendsExtraLine(t *testing.T) {
	entries := []domain.TimeEntry{
		{ID: 1, TaskName: "Design", Hours: 2},
		{ID: 2, TaskName: "Support", Hours: 3},
	}

	payload := NewBuilder(stubRates{}).BuildDetailed(context.Background(),
		acmeWebsite(domain.BillingFlatRate, 1500), entries)

	// itemized lines are kept AND the flat-rate line is appended
	require.Len(t, payload.Lines, 3)
	assert.Equal(t, 0.0, payload.Lines[0].UnitCost)
	assert.Equal(t, 0.0, payload.Lines[1].UnitCost)
	assert.Equal(t, "[Website] Flat Rate", payload.Lines[2].Description)
	assert.Equal(t, 1500.0, payload.Lines[2].UnitCost)
	assert.Equal(t, 1.0, payload.Lines[2].Quantity)
}
