package database

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/applysink/applysink/conf"
)

var DB *gorm.DB

func Init() {
	cfg := conf.Read()

	var dialector gorm.Dialector
	switch cfg.DbDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DbDSN)
	case "postgres":
		dialector = postgres.Open(cfg.DbDSN)
	default:
		dialector = sqlite.Open(cfg.DbDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("[Database] Failed opening %s connection: %v", cfg.DbDriver, err)
	}
	DB = db

	if err := DB.AutoMigrate(&Application{}, &OutcomeRecord{}, &User{}); err != nil {
		log.Fatalf("[Database] Migration failed: %v", err)
	}

	log.Infoln("[Database] Connection and migration successful")
}

func Close() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Errorf("[Database] Error fetching underlying connection: %s", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Errorf("[Database] Error closing connection: %s", err)
	}
}
