package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"turnstile/contexts/marketplace-core/royalty-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/royalty-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateConfig(ctx context.Context, config entities.RoyaltyConfig) error {
	row := royaltyConfigModelFromEntity(config)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConfigExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetConfig(ctx context.Context, collectionID string) (entities.RoyaltyConfig, error) {
	var row royaltyConfigModel
	err := r.db.WithContext(ctx).
		Where("collection_id = ?", strings.TrimSpace(collectionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RoyaltyConfig{}, domainerrors.ErrConfigNotFound
		}
		return entities.RoyaltyConfig{}, err
	}
	return row.toEntity(), nil
}

type royaltyConfigModel struct {
	CollectionID    string    `gorm:"column:collection_id;primaryKey"`
	ArtistWallet    string    `gorm:"column:artist_wallet"`
	VenueWallet     string    `gorm:"column:venue_wallet"`
	PlatformWallet  string    `gorm:"column:platform_wallet"`
	ArtistBP        uint16    `gorm:"column:artist_bp"`
	VenueBP         uint16    `gorm:"column:venue_bp"`
	PlatformBP      uint16    `gorm:"column:platform_bp"`
	CapMultiplierBP uint16    `gorm:"column:cap_multiplier_bp"`
	Authority       string    `gorm:"column:authority"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (royaltyConfigModel) TableName() string {
	return "royalty_configs"
}

func royaltyConfigModelFromEntity(item entities.RoyaltyConfig) royaltyConfigModel {
	return royaltyConfigModel{
		CollectionID:    strings.TrimSpace(item.CollectionID),
		ArtistWallet:    strings.TrimSpace(item.ArtistWallet),
		VenueWallet:     strings.TrimSpace(item.VenueWallet),
		PlatformWallet:  strings.TrimSpace(item.PlatformWallet),
		ArtistBP:        item.ArtistBP,
		VenueBP:         item.VenueBP,
		PlatformBP:      item.PlatformBP,
		CapMultiplierBP: item.CapMultiplierBP,
		Authority:       strings.TrimSpace(item.Authority),
		CreatedAt:       item.CreatedAt.UTC(),
	}
}

func (m royaltyConfigModel) toEntity() entities.RoyaltyConfig {
	return entities.RoyaltyConfig{
		CollectionID:    m.CollectionID,
		ArtistWallet:    m.ArtistWallet,
		VenueWallet:     m.VenueWallet,
		PlatformWallet:  m.PlatformWallet,
		ArtistBP:        m.ArtistBP,
		VenueBP:         m.VenueBP,
		PlatformBP:      m.PlatformBP,
		CapMultiplierBP: m.CapMultiplierBP,
		Authority:       m.Authority,
		CreatedAt:       m.CreatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
