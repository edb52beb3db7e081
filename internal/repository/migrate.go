package repository

import "gorm.io/gorm"

// Migrate creates the schema and the constraints the services rely on.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&userModel{},
		&excursionModel{},
		&excursionTimeModel{},
		&excursionTimePointModel{},
		&orderModel{},
		&transactionModel{},
		&complaintModel{},
		&refundModel{},
		&qrCodeModel{},
		&appConfigModel{},
	)
	if err != nil {
		return err
	}

	// Serializes concurrent booking attempts for the same purchase tuple.
	// The application-level duplicate read-check alone would be racy; this
	// index is the actual guarantee. Completed orders are excluded so a
	// buyer can legitimately re-book after an excursion took place.
	return db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_no_duplicate_order
ON orders (user_id, excursion_id, point_id, date_start, time_start, number_adult)
WHERE status <> 1 AND deleted_at IS NULL
`).Error
}
