package repository

import "gorm.io/gorm"

// Entities lists every persisted entity kind in dependency order.
func Entities() []interface{} {
	return []interface{}{
		&GroupEntity{},
		&MemberEntity{},
		&MembershipEntity{},
		&ScheduledAuctionDateEntity{},
		&AuctionEntity{},
		&DueEntity{},
		&LedgerEntryEntity{},
	}
}

// AutoMigrate creates the schema on databases that are not managed by the
// goose migrations, such as sqlite installs and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Entities()...)
}
