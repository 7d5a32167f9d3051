package appinit

import (
	"fmt"
	"time"

	"gitee.com/czyczk/learnledger/internal/db"
	errors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenMetadataStore connects to the metadata database, migrates the tables and wraps the store with a resource cache if `cacheExpiration` is positive.
//
// Parameters:
//   the database info
//   how long resource rows stay cached
//
// Returns:
//   the metadata store
func OpenMetadataStore(info *DBInfo, cacheExpiration time.Duration) (db.IMetadataStore, error) {
	var dialector gorm.Dialector
	switch info.Driver {
	case "mysql":
		dialector = mysql.Open(info.DSN)
	case "sqlite":
		dialector = sqlite.Open(info.DSN)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动 '%v'", info.Driver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, errors.Wrap(err, "无法连接数据库")
	}

	if err = db.Migrate(gormDB); err != nil {
		return nil, err
	}

	var store db.IMetadataStore = db.NewGormMetadataStore(gormDB)
	if cacheExpiration > 0 {
		store = db.NewCachedMetadataStore(store, cacheExpiration)
	}

	log.Infof("已连接 %v 数据库。", info.Driver)
	return store, nil
}
