package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcpay/gtm-agent/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedLead(t *testing.T, st *SQLiteStore, lead model.Lead) *model.Lead {
	t.Helper()
	created, err := st.CreateLead(context.Background(), &lead)
	require.NoError(t, err)
	return created
}

// --- Leads ---

func TestSQLite_Lead_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created := seedLead(t, st, model.Lead{
		Company:        "Acme Payments",
		CompanyWebsite: "https://acme.example",
		Category:       "Payment Service Provider",
		ContactName:    "Jordan Soto",
		ContactEmail:   "jordan.soto@acme.example",
		StrategicPriorities: &model.StrategicPriorities{
			NewsAndPress:   []string{"Series B announced"},
			CompanyContent: []string{"Expanding into LATAM"},
			SocialMedia:    []model.SocialItem{{Text: "Hiring payments engineers", URL: "https://x.example/1"}},
		},
		NewsSources: []model.NewsSource{{Title: "Acme raises $30M", URL: "https://news.example/acme"}},
	})
	assert.Equal(t, model.StatusNew, created.Status)

	got, err := st.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Payments", got.Company)
	assert.Equal(t, "Payment Service Provider", got.Category)
	assert.Equal(t, "jordan.soto@acme.example", got.ContactEmail)
	require.NotNil(t, got.StrategicPriorities)
	assert.Equal(t, []string{"Series B announced"}, got.StrategicPriorities.NewsAndPress)
	require.Len(t, got.NewsSources, 1)
	assert.Equal(t, "Acme raises $30M", got.NewsSources[0].Title)
}

func TestSQLite_Lead_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetLead(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_ListLeads_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	seedLead(t, st, model.Lead{Company: "Acme Payments", Category: "Merchant"})
	seedLead(t, st, model.Lead{Company: "Borealis Exchange", Category: "Exchange"})
	enriched := seedLead(t, st, model.Lead{Company: "Cirrus Wallet", Category: "Wallet"})
	require.NoError(t, st.UpdateLead(ctx, enriched.ID, map[string]any{"lead_status": string(model.StatusEnriched)}))

	all, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byStatus, err := st.ListLeads(ctx, LeadFilter{Status: model.StatusEnriched})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Cirrus Wallet", byStatus[0].Company)

	byCategory, err := st.ListLeads(ctx, LeadFilter{Category: "Exchange"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Borealis Exchange", byCategory[0].Company)

	bySearch, err := st.ListLeads(ctx, LeadFilter{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Acme Payments", bySearch[0].Company)
}

func TestSQLite_UpdateLead_RefreshesUpdatedAt(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created := seedLead(t, st, model.Lead{Company: "Acme Payments"})

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, st.UpdateLead(ctx, created.ID, map[string]any{
		"category":      "Merchant",
		"lead_priority": "High",
	}))

	got, err := st.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Merchant", got.Category)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
}

func TestSQLite_UpdateLead_UnknownColumn(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateLead(context.Background(), "id", map[string]any{"bogus": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lead column")
}

func TestSQLite_CreateLeads_Bulk(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.CreateLeads(ctx, []model.Lead{
		{Company: "One"},
		{Company: "Two"},
		{Company: "Three"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLite_DeleteLeads(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a := seedLead(t, st, model.Lead{Company: "A"})
	b := seedLead(t, st, model.Lead{Company: "B"})
	seedLead(t, st, model.Lead{Company: "C"})

	n, err := st.DeleteLeads(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	remaining, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "C", remaining[0].Company)
}

// --- Messages ---

func TestSQLite_Message_VersionIncrements(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := seedLead(t, st, model.Lead{Company: "Acme"})

	m1, err := st.CreateMessage(ctx, &model.Message{LeadID: lead.ID, Platform: model.PlatformEmail, Body: "draft one"})
	require.NoError(t, err)
	m2, err := st.CreateMessage(ctx, &model.Message{LeadID: lead.ID, Platform: model.PlatformEmail, Body: "draft two"})
	require.NoError(t, err)

	assert.Equal(t, 1, m1.Version)
	assert.Equal(t, 2, m2.Version)

	msgs, err := st.ListMessages(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	// Newest version first.
	assert.Equal(t, "draft two", msgs[0].Body)
}

func TestSQLite_MarkMessageSent_OnlyOnce(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := seedLead(t, st, model.Lead{Company: "Acme"})
	msg, err := st.CreateMessage(ctx, &model.Message{LeadID: lead.ID, Platform: model.PlatformEmail, Body: "hi"})
	require.NoError(t, err)

	now := time.Now().UTC()
	fu1 := now.Add(model.FollowUp1Offset)
	fu2 := now.Add(model.FollowUp2Offset)
	require.NoError(t, st.MarkMessageSent(ctx, msg.ID, now, fu1, fu2))

	got, err := st.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, got.Sent())
	require.NotNil(t, got.FollowUp1Due)
	assert.WithinDuration(t, fu1, *got.FollowUp1Due, time.Second)

	err = st.MarkMessageSent(ctx, msg.ID, now, fu1, fu2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already sent")
}

func TestSQLite_DueFollowUps(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := seedLead(t, st, model.Lead{Company: "Acme"})
	msg, err := st.CreateMessage(ctx, &model.Message{LeadID: lead.ID, Platform: model.PlatformEmail, Body: "hi"})
	require.NoError(t, err)

	// Sent 15 days ago: the first follow-up is due, the second is not.
	sentAt := time.Now().UTC().Add(-15 * 24 * time.Hour)
	require.NoError(t, st.MarkMessageSent(ctx, msg.ID, sentAt,
		sentAt.Add(model.FollowUp1Offset), sentAt.Add(model.FollowUp2Offset)))

	due, err := st.ListDueFollowUps(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, msg.ID, due[0].ID)

	require.NoError(t, st.MarkFollowUpSent(ctx, msg.ID, 1, time.Now().UTC()))

	due, err = st.ListDueFollowUps(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, due)

	// Second follow-up already sent is rejected on a repeat.
	require.NoError(t, st.MarkFollowUpSent(ctx, msg.ID, 2, time.Now().UTC()))
	err = st.MarkFollowUpSent(ctx, msg.ID, 2, time.Now().UTC())
	require.Error(t, err)
}

// --- Outreach log ---

func TestSQLite_OutreachLog_AppendAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	lead := seedLead(t, st, model.Lead{Company: "Acme"})

	require.NoError(t, st.AppendLog(ctx, &model.OutreachLog{
		LeadID: lead.ID,
		Action: model.ActionSent,
		Notes:  "initial outreach",
	}))
	require.NoError(t, st.AppendLog(ctx, &model.OutreachLog{
		LeadID: lead.ID,
		Action: model.ActionFollowUpSent,
	}))

	entries, err := st.ListLog(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, lead.ID, e.LeadID)
		assert.False(t, e.CreatedAt.IsZero())
	}
}
