package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/message-dispatcher/environments"
	"github.com/onurcolak/message-dispatcher/internal/domain"
	"github.com/onurcolak/message-dispatcher/pkg/logger"
)

func NewMySQLDB(cfg environments.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Infof("Connected to MySQL database")
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		id CHAR(36) NOT NULL PRIMARY KEY,
		content TEXT NOT NULL,
		recipient VARCHAR(255) NOT NULL,
		channel VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'queued',
		scheduled_at DATETIME(3) NULL,
		sent_at DATETIME(3) NULL,
		channel_message_id VARCHAR(255) NULL,
		attempts INT NOT NULL DEFAULT 0,
		last_error TEXT NULL,
		created_at DATETIME(3) NOT NULL,
		updated_at DATETIME(3) NOT NULL,
		INDEX idx_messages_due (status, scheduled_at, created_at),
		INDEX idx_messages_channel (channel),
		INDEX idx_messages_sent_at (sent_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS schedule_configs (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		cron_expression VARCHAR(100) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME(3) NOT NULL,
		updated_at DATETIME(3) NOT NULL,
		UNIQUE KEY uq_schedule_configs_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

func RunMigrations(db *sqlx.DB) error {
	for i, schema := range migrations {
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}

	logger.Infof("Database migrations completed")

	return nil
}

func SeedTestData(db *sqlx.DB) error {
	var count int

	err := db.Get(&count, "SELECT COUNT(*) FROM messages")
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Infof("Database already has %d messages, skipping seed", count)
		return nil
	}

	now := time.Now().UTC()
	later := now.Add(time.Hour)

	testMessages := []struct {
		content     string
		recipient   string
		channel     domain.Channel
		scheduledAt *time.Time
	}{
		{"Hello! This is a test message.", "+573001234567", domain.ChannelWhatsApp, nil},
		{"Your verification code is 123456", "+573009876543", domain.ChannelWhatsApp, nil},
		{"Welcome to our platform! We're excited to have you.", "tt_user_1001", domain.ChannelTikTok, nil},
		{"Your order has been shipped. Track it here.", "123456789", domain.ChannelTelegram, nil},
		{"Reminder: Your appointment is tomorrow at 10 AM", "+573004445566", domain.ChannelWhatsApp, &later},
		{"Special offer just for you! 20% off all products.", "tt_user_1002", domain.ChannelTikTok, &later},
		{"Your password has been successfully reset.", "987654321", domain.ChannelTelegram, nil},
		{"Thank you for your purchase! Order #12345", "+573003334455", domain.ChannelWhatsApp, nil},
	}

	for _, msg := range testMessages {
		_, err := db.Exec(
			`INSERT INTO messages (id, content, recipient, channel, status, scheduled_at, attempts, created_at, updated_at)
			VALUES (?, ?, ?, ?, 'queued', ?, 0, ?, ?)`,
			uuid.NewString(), msg.content, msg.recipient, msg.channel, msg.scheduledAt, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed test data: %w", err)
		}
	}

	logger.Infof("Seeded %d test messages", len(testMessages))
	return nil
}
