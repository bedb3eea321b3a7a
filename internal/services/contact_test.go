package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContacts_ListByPriority(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	u := mustGuest(t, svc)

	for _, c := range []struct {
		name     string
		priority int
	}{{"low", 1}, {"tie-a", 5}, {"high", 9}, {"tie-b", 5}} {
		_, err := svc.Contacts.Add(ctx, &models.EmergencyContact{
			UserID: u.ID, Name: c.name, PhoneNumber: "1", Priority: c.priority,
			ContactType: models.ContactFriend, IsActive: c.name != "low",
		})
		require.NoError(t, err)
	}

	list, err := svc.Contacts.ListByPriority(ctx, u.ID)
	require.NoError(t, err)
	var names []string
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"high", "tie-a", "tie-b", "low"}, names)

	active, err := svc.Contacts.ListActive(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestContacts_UnknownUser(t *testing.T) {
	svc, _ := newTestServices(t, Options{})

	_, err := svc.Contacts.Add(context.Background(), &models.EmergencyContact{
		UserID: 99, Name: "x", PhoneNumber: "1", ContactType: models.ContactOther,
	})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestContacts_UpdateKeepsOwner(t *testing.T) {
	svc, _ := newTestServices(t, Options{})
	ctx := context.Background()
	u := mustGuest(t, svc)

	c, err := svc.Contacts.Add(ctx, &models.EmergencyContact{UserID: u.ID, Name: "Mom", PhoneNumber: "1", ContactType: models.ContactFamily})
	require.NoError(t, err)

	upd := *c
	upd.Name = "Mother"
	upd.Priority = 3
	require.NoError(t, svc.Contacts.Update(ctx, &upd))

	list, err := svc.Contacts.ListByPriority(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mother", list[0].Name)
	assert.Equal(t, u.ID, list[0].UserID)
	assert.True(t, c.CreatedAt.Equal(list[0].CreatedAt))

	require.NoError(t, svc.Contacts.Remove(ctx, c.ID))
	require.NoError(t, svc.Contacts.Remove(ctx, c.ID))
	list, err = svc.Contacts.ListByPriority(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
