package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB membuka koneksi database berdasarkan env.
// DB_DRIVER=mysql untuk produksi; selain itu fallback ke file sqlite
// supaya development lokal tidak butuh server DB.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")

	if driver == "mysql" {
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				envOr("DB_USER", "root"),
				os.Getenv("DB_PASSWORD"),
				envOr("DB_HOST", "127.0.0.1"),
				envOr("DB_PORT", "3306"),
				envOr("DB_NAME", "canteen"),
			)
		}
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}

	path := envOr("SQLITE_PATH", "canteen.db")
	return gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"), &gorm.Config{})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
