package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/vfg2006/adops-finance-api/infrastructure/database/postgres"
	"github.com/vfg2006/adops-finance-api/internal/domain"
)

const (
	channelsTable   = "channels"
	channelsColumns = "id, name, service_fee_type, service_fee_value, is_active, created_by, updated_by, created_at, updated_at"
)

type ChannelRepository interface {
	GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.Channel, error)
	List(ctx context.Context, q postgres.Queryer, filter domain.ChannelFilter) ([]*domain.Channel, int, error)
	Create(ctx context.Context, q postgres.Queryer, channel *domain.Channel) error
	Update(ctx context.Context, q postgres.Queryer, channel *domain.Channel) error
}

type channelRepository struct{}

func NewChannelRepository() ChannelRepository {
	return &channelRepository{}
}

func (r *channelRepository) GetByID(ctx context.Context, q postgres.Queryer, id uuid.UUID) (*domain.Channel, error) {
	return getOne[domain.Channel](ctx, q, psql.
		Select(channelsColumns).
		From(channelsTable).
		Where(squirrel.Eq{"id": id}))
}

func (r *channelRepository) List(ctx context.Context, q postgres.Queryer, filter domain.ChannelFilter) ([]*domain.Channel, int, error) {
	base := func(columns ...string) squirrel.SelectBuilder {
		b := psql.Select(columns...).From(channelsTable)
		if filter.IsActive != nil {
			b = b.Where(squirrel.Eq{"is_active": *filter.IsActive})
		}
		return b
	}

	channels, total, err := paginate[domain.Channel](ctx, q, base, channelsColumns, "name ASC", filter.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("list channels: %w", err)
	}
	return channels, total, nil
}

func (r *channelRepository) Create(ctx context.Context, q postgres.Queryer, channel *domain.Channel) error {
	_, err := exec(ctx, q, psql.
		Insert(channelsTable).
		Columns("id", "name", "service_fee_type", "service_fee_value", "is_active",
			"created_by", "updated_by", "created_at", "updated_at").
		Values(channel.ID, channel.Name, channel.ServiceFeeType, channel.ServiceFeeValue, channel.IsActive,
			channel.CreatedBy, channel.UpdatedBy, channel.CreatedAt, channel.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

func (r *channelRepository) Update(ctx context.Context, q postgres.Queryer, channel *domain.Channel) error {
	_, err := exec(ctx, q, psql.
		Update(channelsTable).
		SetMap(map[string]interface{}{
			"name":              channel.Name,
			"service_fee_type":  channel.ServiceFeeType,
			"service_fee_value": channel.ServiceFeeValue,
			"is_active":         channel.IsActive,
			"updated_by":        channel.UpdatedBy,
			"updated_at":        channel.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": channel.ID}))
	if err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	return nil
}
