package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
	mu   sync.RWMutex
)

// InitDB menyimpan koneksi database bersama; pemanggilan berikutnya diabaikan.
func InitDB(database *gorm.DB) {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		db = database
	})
}

// GetDB mengembalikan koneksi database bersama.
func GetDB() *gorm.DB {
	mu.RLock()
	defer mu.RUnlock()
	return db
}
