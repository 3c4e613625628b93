package handlers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"slotkeeper/internal/models"
	"slotkeeper/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSlot_Validation(t *testing.T) {
	app := testkit.New(t)
	app.CreateUser("frank", models.RoleUser)
	slot := app.CreateSlot("A1", 10)
	c := app.LoginAs("frank")

	form := func(slotID, start, end string) url.Values {
		return url.Values{"slot_id": {slotID}, "start_date": {start}, "end_date": {end}}
	}

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing slot", form("", "2026-11-01", "2026-11-02"), "Slot, start date, and end date are required"},
		{"missing end", form(itoa(slot.ID), "2026-11-01", ""), "Slot, start date, and end date are required"},
		{"bad slot id", form("abc", "2026-11-01", "2026-11-02"), "Select a valid slot"},
		{"bad start", form(itoa(slot.ID), "01/11/2026", "2026-11-02"), "Start date must be in YYYY-MM-DD format"},
		{"bad end", form(itoa(slot.ID), "2026-11-01", "tomorrow"), "End date must be in YYYY-MM-DD format"},
		{"end before start", form(itoa(slot.ID), "2026-11-10", "2026-11-01"), "End date cannot be before start date"},
		{"unknown slot", form("9999", "2026-11-01", "2026-11-02"), "Slot not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.Post("/request_slot", tt.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}

	has, err := app.Requests.HasRequestsForSlot(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRequestSlot_CreatesPendingRequest(t *testing.T) {
	app := testkit.New(t)
	grace := app.CreateUser("grace", models.RoleUser)
	slot := app.CreateSlot("B2", 1500)
	c := app.LoginAs("grace")

	w := c.Get("/request_slot")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "B2")

	_, page := c.Follow("/request_slot", url.Values{
		"slot_id":    {itoa(slot.ID)},
		"start_date": {"2026-12-01"},
		"end_date":   {"2026-12-01"},
		"notes":      {"  fragile  "},
	})
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Slot request submitted successfully")
	assert.Contains(t, page.Body.String(), "2026-12-01")

	mine, err := app.Requests.ListByUser(context.Background(), grace.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, models.RequestPending, mine[0].Status)
	assert.Equal(t, "fragile", mine[0].Notes)
}

func TestCancelRequest_OnlyOwnerAndPending(t *testing.T) {
	app := testkit.New(t)
	owner := app.CreateUser("heidi", models.RoleUser)
	app.CreateUser("ivan", models.RoleUser)
	app.CreateUser("boss", models.RoleAdmin)
	slot := app.CreateSlot("A1", 10)

	pending := app.CreateRequest(owner.ID, slot.ID)
	rejected := app.CreateRequest(owner.ID, slot.ID)
	require.NoError(t, app.Requests.UpdateStatus(context.Background(), rejected.ID, models.RequestRejected))

	t.Run("other user", func(t *testing.T) {
		_, page := app.LoginAs("ivan").Follow("/cancel_request/"+itoa(pending.ID), nil)
		assert.Contains(t, page.Body.String(), "You do not have permission to cancel this request")
		assert.Equal(t, models.RequestPending, app.Request(pending.ID).Status)
	})

	t.Run("admin is not the owner", func(t *testing.T) {
		_, page := app.LoginAs("boss").Follow("/cancel_request/"+itoa(pending.ID), nil)
		assert.Contains(t, page.Body.String(), "You do not have permission to cancel this request")
		assert.Equal(t, models.RequestPending, app.Request(pending.ID).Status)
	})

	t.Run("not pending", func(t *testing.T) {
		_, page := app.LoginAs("heidi").Follow("/cancel_request/"+itoa(rejected.ID), nil)
		assert.Contains(t, page.Body.String(), "Can only cancel pending requests")
		assert.Equal(t, models.RequestRejected, app.Request(rejected.ID).Status)
	})

	t.Run("missing", func(t *testing.T) {
		_, page := app.LoginAs("heidi").Follow("/cancel_request/9999", nil)
		assert.Contains(t, page.Body.String(), "Request not found")
	})

	t.Run("anonymous", func(t *testing.T) {
		w := app.Client().Post("/cancel_request/"+itoa(pending.ID), nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, models.RequestPending, app.Request(pending.ID).Status)
	})

	t.Run("owner", func(t *testing.T) {
		_, page := app.LoginAs("heidi").Follow("/cancel_request/"+itoa(pending.ID), nil)
		assert.Contains(t, page.Body.String(), "Request cancelled successfully")
		assert.Equal(t, models.RequestCancelled, app.Request(pending.ID).Status)
	})
}
