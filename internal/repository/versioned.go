package repository

import (
	"context"

	"gorm.io/gorm"
)

// updateVersioned is the single write path for versioned rows. It applies
// updates and increments row_version by one in one conditional statement,
// so of two writers holding the same version only one can succeed.
//
// Zero affected rows means the row is gone (gorm.ErrRecordNotFound) or was
// changed since it was read (ErrVersionConflict).
func updateVersioned(ctx context.Context, db *gorm.DB, model any, id any, expectedVersion int64, updates map[string]any) error {
	assignments := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		assignments[k] = v
	}
	assignments["row_version"] = gorm.Expr("row_version + 1")

	result := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND row_version = ?", id, expectedVersion).
		Updates(assignments)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrVersionConflict
}
