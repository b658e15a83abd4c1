package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/goccy/go-json"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cart-backend/internal/domain"
	"cart-backend/internal/repository"
)

const errDuplicateEntry = 1062

// userRecord is the gorm model backing the users table.
type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:191;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	Cart         string `gorm:"type:json;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string {
	return "users"
}

// UserRepository stores users in MySQL through gorm.
type UserRepository struct {
	db *gorm.DB
}

// Open connects to MySQL using a go-sql-driver DSN. Rows are reported as
// matched rather than changed so saving an identical cart still counts.
func Open(dsn string) (*gorm.DB, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true

	db, err := gorm.Open(gormmysql.Open(cfg.FormatDSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open mysql db: %w", err)
	}
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&userRecord{}); err != nil {
		return fmt.Errorf("migrate users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.Cart = user.Cart.Normalize()
	cart, err := json.Marshal(user.Cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	rec := userRecord{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Cart:         string(cart),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("insert user %q: %w", user.Username, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.CreatedAt = rec.CreatedAt
	user.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) UpdateCart(ctx context.Context, id string, cart domain.Cart) error {
	payload, err := json.Marshal(cart.Normalize())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	res := r.db.WithContext(ctx).
		Model(&userRecord{}).
		Where("id = ?", id).
		Update("cart", string(payload))
	if res.Error != nil {
		return fmt.Errorf("update cart: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	user := &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(rec.Cart), &user.Cart); err != nil {
		return nil, fmt.Errorf("decode cart for user %s: %w", rec.ID, err)
	}
	user.Cart = user.Cart.Normalize()
	return user, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}
