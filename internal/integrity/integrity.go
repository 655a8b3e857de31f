// FilePath: internal/integrity/integrity.go

// Package integrity enforces the write-time invariants of the schema:
// field-level validation, referential existence, uniqueness (including the
// partial-uniqueness predicates scoped to active rows), and the per-relation
// delete policy. Policy checks and the cascade closure run inside one
// transaction, so no partial application is ever observable.
package integrity

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/deepsea-systems/rovhub/internal/database"
	"github.com/deepsea-systems/rovhub/internal/errors"
	"github.com/deepsea-systems/rovhub/internal/schema"
)

// Store is the row-level storage surface the engine drives. Implemented by
// sqlstore.PolicyStore.
type Store interface {
	database.Repository
	Exists(ctx context.Context, table, id string) (bool, error)
	CountBy(ctx context.Context, tx database.Transaction, table, column string, value any) (int, error)
	CountMatching(ctx context.Context, tx database.Transaction, table string, conds map[string]any, excludeID string) (int, error)
	SelectIDsBy(ctx context.Context, tx database.Transaction, table, column string, value any) ([]string, error)
	DeleteBy(ctx context.Context, tx database.Transaction, table, column string, value any) (int64, error)
	DeleteByID(ctx context.Context, tx database.Transaction, table, id string) (int64, error)
}

// Engine validates writes and applies deletion policy against the schema
// descriptors.
type Engine struct {
	store Store
}

// New creates an integrity engine on top of store.
func New(store Store) *Engine {
	return &Engine{store: store}
}

// Validate checks a record against its entity descriptor: required fields,
// length limits, enumerated-value membership, and referential existence of
// every set foreign key. The record is any struct with db tags matching the
// descriptor's field names.
func (e *Engine) Validate(ctx context.Context, entityName string, record any) error {
	ent, ok := schema.EntityByName(entityName)
	if !ok {
		return errors.NewInternalError(fmt.Sprintf("unknown entity %q", entityName), nil)
	}

	rec := fieldsOf(record)
	for _, f := range ent.Fields {
		val, present := rec[f.Name]
		if f.Required && (!present || isZero(val)) {
			return errors.NewValidationError(
				fmt.Sprintf("%s.%s is required", entityName, f.Name), nil).
				WithEntity(entityName).WithField(f.Name)
		}
		if !present || val == nil {
			continue
		}
		if f.MaxLen > 0 {
			if s, ok := val.(string); ok && len(s) > f.MaxLen {
				return errors.NewValidationError(
					fmt.Sprintf("%s.%s exceeds %d characters", entityName, f.Name, f.MaxLen), nil).
					WithEntity(entityName).WithField(f.Name)
			}
		}
		if len(f.Enum) > 0 {
			s := fmt.Sprintf("%v", val)
			if s != "" && !contains(f.Enum, s) {
				return errors.NewValidationError(
					fmt.Sprintf("%s.%s: %q is not one of %s", entityName, f.Name, s, strings.Join(f.Enum, "|")), nil).
					WithEntity(entityName).WithField(f.Name)
			}
		}
	}

	// Referential existence of every foreign key that is set.
	for _, rel := range schema.ParentRelations(entityName) {
		val, present := rec[rel.FK]
		if !present || val == nil {
			continue
		}
		id, ok := val.(string)
		if !ok || id == "" {
			continue
		}
		parent, _ := schema.EntityByName(rel.Parent)
		exists, err := e.store.Exists(ctx, parent.Table, id)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewValidationError(
				fmt.Sprintf("%s.%s references missing %s %q", entityName, rel.FK, rel.Parent, id), nil).
				WithEntity(entityName).WithField(rel.FK)
		}
	}
	return nil
}

// CheckUnique evaluates the uniqueness constraints declared for the entity
// against the record, inside the caller's transaction. For partial
// constraints the check only applies when the record matches the predicate
// (active = true). The database's partial unique index remains the backstop
// for writes that race this check.
func (e *Engine) CheckUnique(ctx context.Context, tx database.Transaction, entityName string, record any) error {
	ent, ok := schema.EntityByName(entityName)
	if !ok {
		return errors.NewInternalError(fmt.Sprintf("unknown entity %q", entityName), nil)
	}
	rec := fieldsOf(record)
	excludeID, _ := rec["id"].(string)

	for _, u := range schema.Uniques(entityName) {
		conds := map[string]any{}
		if u.Where != "" {
			flag, _ := rec[u.Where].(bool)
			if !flag {
				continue
			}
			conds[u.Where] = true
		}
		for _, f := range u.Fields {
			conds[f] = rec[f]
		}
		n, err := e.store.CountMatching(ctx, tx, ent.Table, conds, excludeID)
		if err != nil {
			return err
		}
		if n > 0 {
			return errors.NewUniqueConstraintError(
				entityName, strings.Join(u.Fields, ","), u.Where, nil).
				WithDetails(map[string]any{"constraint": u.Name})
		}
	}
	return nil
}

// ApplyDeletePolicy deletes one row and applies the relation table: protect
// relations with dependent rows abort the delete naming the blocking entity
// and count; cascade relations take their dependents down recursively. The
// whole closure runs in tx, so a failure anywhere rolls everything back.
func (e *Engine) ApplyDeletePolicy(ctx context.Context, tx database.Transaction, entityName, id string) error {
	ent, ok := schema.EntityByName(entityName)
	if !ok {
		return errors.NewInternalError(fmt.Sprintf("unknown entity %q", entityName), nil)
	}

	// ChildRelations yields protect relations first, so a blocked delete is
	// detected before any cascade work happens.
	for _, rel := range schema.ChildRelations(entityName) {
		child, _ := schema.EntityByName(rel.Child)
		switch rel.OnDelete {
		case schema.Protect:
			n, err := e.store.CountBy(ctx, tx, child.Table, rel.FK, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return errors.NewReferentialIntegrityError(entityName, rel.Child, n)
			}
		case schema.Cascade:
			if len(schema.ChildRelations(rel.Child)) == 0 {
				// Leaf entity: one bulk delete instead of row-by-row.
				n, err := e.store.DeleteBy(ctx, tx, child.Table, rel.FK, id)
				if err != nil {
					return err
				}
				if n > 0 {
					nuts.L.Debugf("[Integrity] Cascaded %d %s row(s) for %s %s", n, rel.Child, entityName, id)
				}
				continue
			}
			childIDs, err := e.store.SelectIDsBy(ctx, tx, child.Table, rel.FK, id)
			if err != nil {
				return err
			}
			for _, childID := range childIDs {
				if err := e.ApplyDeletePolicy(ctx, tx, rel.Child, childID); err != nil {
					return err
				}
			}
		}
	}

	n, err := e.store.DeleteByID(ctx, tx, ent.Table, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("%s not found", entityName), nil)
	}
	return nil
}

// Delete wraps ApplyDeletePolicy in its own transaction for callers that do
// not need to compose the delete with other writes.
func (e *Engine) Delete(ctx context.Context, entityName, id string) error {
	tx, err := e.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.ApplyDeletePolicy(ctx, tx, entityName, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit delete", err)
	}
	return nil
}

// fieldsOf flattens a struct into field-name -> value using db tags.
// Pointers are dereferenced; nil pointers map to nil.
func fieldsOf(v any) map[string]any {
	out := map[string]any{}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				out[tag] = nil
				continue
			}
			fv = fv.Elem()
		}
		out[tag] = fv.Interface()
	}
	return out
}

func isZero(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case time.Time:
		return v.IsZero()
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
