package dynamo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/judicial-monitor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestFavoriteRepo_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepo(newFakeDynamo(), "favorites")

	fav := &domain.FavoriteProcess{UserID: "u1", CaseNumber: "11001-31", Office: "Juzgado 1", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, fav))
	require.NoError(t, repo.Create(ctx, &domain.FavoriteProcess{UserID: "u2", CaseNumber: "11001-31"}))

	got, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "11001-31", got[0].CaseNumber)
	assert.Equal(t, "Juzgado 1", got[0].Office)

	require.NoError(t, repo.Delete(ctx, "u1", "11001-31"))
	got, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFavoriteRepo_Create_Duplicate_ReturnsConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepo(newFakeDynamo(), "favorites")

	require.NoError(t, repo.Create(ctx, &domain.FavoriteProcess{UserID: "u1", CaseNumber: "123"}))
	err := repo.Create(ctx, &domain.FavoriteProcess{UserID: "u1", CaseNumber: "123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFavoriteRepo_Delete_Missing_ReturnsNotFound(t *testing.T) {
	repo := NewFavoriteRepo(newFakeDynamo(), "favorites")
	err := repo.Delete(context.Background(), "u1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFavoriteRepo_ListAll_FollowsPagination(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	fake.scanPages = 1
	repo := NewFavoriteRepo(fake, "favorites")
	for _, u := range []string{"u1", "u2", "u3"} {
		require.NoError(t, repo.Create(ctx, &domain.FavoriteProcess{UserID: u, CaseNumber: "777"}))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSnapshotRepo_Get_Absent_ReturnsNil(t *testing.T) {
	repo := NewSnapshotRepo(newFakeDynamo(), "snapshots")
	s, err := repo.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSnapshotRepo_Upsert_OverwritesWholeItem(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepo(newFakeDynamo(), "snapshots")

	require.NoError(t, repo.Upsert(ctx, &domain.ProcessSnapshot{
		ProcessNumber:    "123",
		LastActivityDate: strPtr("2024-01-10"),
		LastStatus:       strPtr("Activo"),
		Summary:          strPtr("Auto - Fija fecha"),
	}))
	require.NoError(t, repo.Upsert(ctx, &domain.ProcessSnapshot{
		ProcessNumber:    "123",
		LastActivityDate: strPtr("2024-02-01"),
	}))

	s, err := repo.Get(ctx, "123")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "2024-02-01", *s.LastActivityDate)
	assert.Nil(t, s.LastStatus)
	assert.Nil(t, s.Summary)
}

func TestNotificationRepo_PutListMarkAsRead(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepo(newFakeDynamo(), "notifications")
	now := time.Now().UTC()

	require.NoError(t, repo.Put(ctx, &domain.Notification{NotificationID: "n1", UserID: "u1", Title: "a", Type: domain.NotificationTypeInApp, CreatedAt: now}))
	require.NoError(t, repo.Put(ctx, &domain.Notification{NotificationID: "n2", UserID: "u1", Title: "b", Type: domain.NotificationTypeInApp, CreatedAt: now}))
	require.NoError(t, repo.Put(ctx, &domain.Notification{NotificationID: "n3", UserID: "u2", Title: "c", Type: domain.NotificationTypeInApp, CreatedAt: now}))

	all, err := repo.ListByUser(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	limited, err := repo.ListByUser(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	updated, err := repo.MarkAsRead(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	require.NotNil(t, updated.ReadAt)

	unread, err := repo.ListUnread(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "n2", unread[0].NotificationID)
}

func TestNotificationRepo_ListUnread_FollowsPagination(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	fake.queryPage = 2
	repo := NewNotificationRepo(fake, "notifications")
	now := time.Now().UTC()

	// Read items lead the partition, so early pages are empty after the filter.
	for i, read := range []bool{true, true, true, false, true, false, false} {
		require.NoError(t, repo.Put(ctx, &domain.Notification{
			NotificationID: fmt.Sprintf("n%d", i),
			UserID:         "u1",
			IsRead:         read,
			CreatedAt:      now,
		}))
	}

	unread, err := repo.ListUnread(ctx, "u1")
	require.NoError(t, err)
	ids := make([]string, 0, len(unread))
	for _, n := range unread {
		ids = append(ids, n.NotificationID)
	}
	assert.ElementsMatch(t, []string{"n3", "n5", "n6"}, ids)
	assert.Equal(t, 4, fake.queryCalls)

	limited, err := repo.ListByUser(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestNotificationRepo_Put_StoresCaseNumber(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	repo := NewNotificationRepo(fake, "notifications")

	require.NoError(t, repo.Put(ctx, &domain.Notification{NotificationID: "n1", UserID: "u1", CaseNumber: "2024-001"}))

	stored := fake.tables["notifications"][0]
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-001"}, stored["case_number"])
	assert.NotContains(t, stored, "process_id")

	got, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "2024-001", got.CaseNumber)
}

func TestNotificationRepo_Get_Missing_ReturnsNotFound(t *testing.T) {
	repo := NewNotificationRepo(newFakeDynamo(), "notifications")
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ResolveEmail(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	fake.tables["users"] = []item{{
		fieldUserID: &types.AttributeValueMemberS{Value: "u1"},
		"email":     &types.AttributeValueMemberS{Value: "ana@example.com"},
	}}
	repo := NewUserRepo(fake, "users")

	email, err := repo.ResolveEmail(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	email, err = repo.ResolveEmail(ctx, "ghost")
	require.NoError(t, err)
	assert.Empty(t, email)
}
