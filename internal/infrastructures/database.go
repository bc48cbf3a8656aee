package infrastructures

import (
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

func NewDatabase() *gorm.DB {
	// TranslateError is required: the issuance guard distinguishes lost
	// claim races from voucher code collisions via gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(os.Getenv("DATABASE_URL")), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Order{},
		&models.Voucher{},
		&models.IssuanceClaim{},
		&models.EventRecord{},
	); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	return db
}
