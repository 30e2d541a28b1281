// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the audited writer: a thin decorator
// around *gorm.DB that stamps added_by, updated_by, and deleted_by with the
// acting caller on every write it performs.
//
// Stamping is explicit. Writes that must be attributed go through
// Audited(db, actor); plain *gorm.DB writes are never stamped. The writer
// wraps whatever handle it is given, so inside a transaction it writes on
// the transaction.
//
// Usage:
//
//	err := db.Transaction(func(tx *gorm.DB) error {
//	    w := repo.Audited(tx, callerID)
//	    return w.Create(ctx, &domain.Recipient{...})
//	})
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique constraint violation.
var ErrDuplicate = errors.New("duplicate")

// IsDuplicate reports whether err is a unique constraint violation.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value")
}

// Auditable is implemented by models that embed domain.Audit.
type Auditable interface {
	StampCreated(actor string)
	StampUpdated(actor string)
	StampDeleted(actor string)
}

// AuditedDB performs writes on behalf of an actor.
type AuditedDB struct {
	db    *gorm.DB
	actor string
}

// Audited returns a writer that attributes writes on db to actor.
func Audited(db *gorm.DB, actor string) AuditedDB {
	return AuditedDB{db: db, actor: actor}
}

// DB returns the underlying handle for reads.
func (a AuditedDB) DB() *gorm.DB { return a.db }

// Actor returns the identity writes are attributed to.
func (a AuditedDB) Actor() string { return a.actor }

// Create stamps added_by and inserts value.
func (a AuditedDB) Create(ctx context.Context, value Auditable) error {
	value.StampCreated(a.actor)
	return a.db.WithContext(ctx).Create(value).Error
}

// Updates applies fields to model and stamps updated_by. Loaded associations
// are not written. It returns the number of affected rows so callers can
// detect a vanished target.
func (a AuditedDB) Updates(ctx context.Context, model Auditable, fields map[string]any) (int64, error) {
	model.StampUpdated(a.actor)
	cols := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		cols[k] = v
	}
	cols["updated_by"] = a.actor
	res := a.db.WithContext(ctx).Model(model).Omit(clause.Associations).Updates(cols)
	return res.RowsAffected, res.Error
}

// SoftDelete stamps deleted_by and soft-deletes model in one transaction.
// model must carry its primary key.
func (a AuditedDB) SoftDelete(ctx context.Context, model Auditable) error {
	model.StampDeleted(a.actor)
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(model).Omit(clause.Associations).Update("deleted_by", a.actor)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Delete(model).Error
	})
}
