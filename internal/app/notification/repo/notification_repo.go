package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_notification"
	"github.com/light-bringer/rawsy-service/internal/pkg/committer"
	"github.com/light-bringer/rawsy-service/internal/pkg/query"
)

// NotificationRepo implements NotificationRepository for Spanner.
type NotificationRepo struct {
	client    *spanner.Client
	committer *committer.Committer
	model     *m_notification.Model
}

func NewNotificationRepo(client *spanner.Client, c *committer.Committer) contracts.NotificationRepository {
	return &NotificationRepo{
		client:    client,
		committer: c,
		model:     m_notification.NewModel(),
	}
}

// Save inserts one notification row.
func (r *NotificationRepo) Save(ctx context.Context, n *domain.Notification) error {
	plan := committer.NewPlan()
	plan.Add(r.model.InsertMut(&m_notification.Row{
		NotificationID: n.ID(),
		UserID:         n.UserID(),
		Type:           string(n.Type()),
		Title:          n.Title(),
		Body:           n.Body(),
		Data:           spanner.NullJSON{Value: n.Data(), Valid: true},
		Read:           n.Read(),
		CreatedAt:      n.CreatedAt(),
	}))
	return r.committer.Apply(ctx, plan)
}

// ListByUser returns the user's notifications newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	stmt := query.From(m_notification.TableName).
		Select(m_notification.Columns()...).
		Where(query.Eq(m_notification.UserID, userID)).
		OrderBy(m_notification.CreatedAt, query.Desc).
		Limit(int64(limit)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	out := make([]*domain.Notification, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate notifications: %w", err)
		}

		var data m_notification.Row
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse notification: %w", err)
		}
		out = append(out, rowToDomain(&data))
	}
	return out, nil
}

func rowToDomain(row *m_notification.Row) *domain.Notification {
	payload := make(map[string]string)
	if row.Data.Valid {
		if m, ok := row.Data.Value.(map[string]interface{}); ok {
			for k, v := range m {
				payload[k] = fmt.Sprint(v)
			}
		}
	}

	return domain.ReconstructNotification(row.NotificationID, row.UserID, domain.Message{
		Type:  domain.Type(row.Type),
		Title: row.Title,
		Body:  row.Body,
		Data:  payload,
	}, row.Read, row.CreatedAt)
}
