package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"turnstile/contexts/marketplace-core/listing-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
	"turnstile/contexts/marketplace-core/listing-service/ports"
	"turnstile/internal/shared/ledger"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Repository implements the listing ports on postgres. Execute maps the
// unit-of-work boundary onto one database transaction; the ledger tables
// (account_balances, unit_custody, escrow_vaults) are shared with the
// auction service so funds and custody stay consistent across contexts.
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

func (r *Repository) Execute(ctx context.Context, fn func(tx ports.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&pgTx{db: gtx})
	})
}

type pgTx struct {
	db *gorm.DB
}

func (t *pgTx) GetListing(listingID string) (entities.Listing, error) {
	var row listingModel
	err := t.db.Where("listing_id = ?", strings.TrimSpace(listingID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, err
	}
	return row.toEntity(), nil
}

func (t *pgTx) SaveListing(listing entities.Listing) error {
	row := listingModelFromEntity(listing)
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "listing_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (t *pgTx) GetOffer(offerID string) (entities.Offer, error) {
	var row offerModel
	err := t.db.Where("offer_id = ?", strings.TrimSpace(offerID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, domainerrors.ErrOfferNotFound
		}
		return entities.Offer{}, err
	}
	return row.toEntity(), nil
}

func (t *pgTx) SaveOffer(offer entities.Offer) error {
	row := offerModelFromEntity(offer)
	return t.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "offer_id"}},
		UpdateAll: true,
	}).Create(&row).Error
}

func (t *pgTx) Pay(from string, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	debit := t.db.Model(&accountBalanceModel{}).
		Where("account = ? AND balance >= ?", strings.TrimSpace(from), amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if debit.Error != nil {
		return debit.Error
	}
	if debit.RowsAffected == 0 {
		return ledger.ErrInsufficientFunds
	}
	credit := accountBalanceModel{Account: strings.TrimSpace(to), Balance: amount}
	return t.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account"}},
		DoUpdates: clause.Assignments(map[string]any{
			"balance": gorm.Expr("account_balances.balance + EXCLUDED.balance"),
		}),
	}).Create(&credit).Error
}

func (t *pgTx) LockTicket(ticketID string, from string, vault string) error {
	move := t.db.Model(&unitCustodyModel{}).
		Where("unit = ? AND holder = ?", strings.TrimSpace(ticketID), strings.TrimSpace(from)).
		Update("holder", strings.TrimSpace(vault))
	if move.Error != nil {
		return move.Error
	}
	if move.RowsAffected == 0 {
		return ledger.ErrWrongQuantity
	}
	row := escrowVaultModel{Vault: strings.TrimSpace(vault), Unit: strings.TrimSpace(ticketID)}
	if err := t.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ledger.ErrVaultOccupied
		}
		return err
	}
	return nil
}

func (t *pgTx) ReleaseTicket(vault string, to string) error {
	var row escrowVaultModel
	err := t.db.Where("vault = ?", strings.TrimSpace(vault)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledger.ErrEmptyVault
		}
		return err
	}
	move := t.db.Model(&unitCustodyModel{}).
		Where("unit = ?", row.Unit).
		Update("holder", strings.TrimSpace(to))
	if move.Error != nil {
		return move.Error
	}
	return t.db.Where("vault = ?", row.Vault).Delete(&escrowVaultModel{}).Error
}

func (t *pgTx) AppendOutbox(envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return t.db.Create(&row).Error
}

func (r *Repository) GetListing(ctx context.Context, listingID string) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", strings.TrimSpace(listingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListListingsBySeller(ctx context.Context, seller string) ([]entities.Listing, error) {
	var rows []listingModel
	err := r.db.WithContext(ctx).
		Where("seller = ?", strings.TrimSpace(seller)).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (entities.Offer, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, domainerrors.ErrOfferNotFound
		}
		return entities.Offer{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error) {
	var rows []offerModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", strings.TrimSpace(listingID)).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Offer, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListDueListingIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&listingModel{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", string(entities.ListingStatusActive), now.UTC()).
		Order("expires_at ASC").
		Limit(limit).
		Pluck("listing_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *Repository) ExpireActiveOffers(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("status = ? AND expires_at <= ?", string(entities.OfferStatusActive), now.UTC()).
		Updates(map[string]any{
			"status":     string(entities.OfferStatusExpired),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// Describe implements the collection metadata read for tickets registered
// in the tickets table.
func (r *Repository) Describe(ctx context.Context, ticketID string) (ports.TicketInfo, error) {
	var row ticketModel
	err := r.db.WithContext(ctx).
		Where("ticket_id = ?", strings.TrimSpace(ticketID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TicketInfo{}, domainerrors.ErrTicketNotFound
		}
		return ports.TicketInfo{}, err
	}
	return ports.TicketInfo{
		TicketID:      row.TicketID,
		CollectionID:  row.CollectionID,
		OriginalPrice: row.OriginalPrice,
	}, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
