package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_user"
	"github.com/light-bringer/rawsy-service/internal/models/m_wishlist"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/query"
)

// UserDirectory implements contracts.UserDirectory over the users and
// wishlist_items tables.
type UserDirectory struct {
	client *spanner.Client
}

func NewUserDirectory(client *spanner.Client) contracts.UserDirectory {
	return &UserDirectory{client: client}
}

// GetRecipient reads one user row.
func (d *UserDirectory) GetRecipient(ctx context.Context, userID string) (*domain.Recipient, error) {
	row, err := d.client.Single().ReadRow(ctx, m_user.TableName, spanner.Key{userID}, m_user.Columns())
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	var data m_user.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return dataToRecipient(&data), nil
}

// FindWishlistWatchers joins wishlist_items to users through the by-product index.
func (d *UserDirectory) FindWishlistWatchers(ctx context.Context, productID string) ([]*domain.Recipient, error) {
	stmt := query.From(m_wishlist.TableName).
		ForceIndex(m_wishlist.IndexByProduct).
		As("w").
		Join(m_user.TableName, "u", "u."+m_user.UserID+" = w."+m_wishlist.UserID).
		Select(qualified("u", m_user.Columns())...).
		Where(query.Eq("w."+m_wishlist.ProductID, productID)).
		Build()

	iter := d.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	watchers := make([]*domain.Recipient, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate wishlist watchers: %w", err)
		}

		var data m_user.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse wishlist watcher: %w", err)
		}
		watchers = append(watchers, dataToRecipient(&data))
	}
	return watchers, nil
}

func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func dataToRecipient(data *m_user.Data) *domain.Recipient {
	tokens := make([]string, len(data.DeviceTokens))
	copy(tokens, data.DeviceTokens)
	return &domain.Recipient{
		ID:           data.UserID,
		Name:         data.Name,
		Role:         actor.Role(data.Role),
		DeviceTokens: tokens,
	}
}
