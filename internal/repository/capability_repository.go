package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
	"github.com/noah-isme/usercoursecontrol-api/pkg/database"
	qb "github.com/noah-isme/usercoursecontrol-api/pkg/querybuilder"
)

const capabilityAllow = 1

// CapabilityRepository resolves role-based capability grants.
type CapabilityRepository struct {
	db     *sqlx.DB
	schema database.Schema
}

// NewCapabilityRepository creates a capability repository.
func NewCapabilityRepository(db *sqlx.DB, schema database.Schema) *CapabilityRepository {
	return &CapabilityRepository{db: db, schema: schema}
}

// HasCapability reports whether any of the user's role assignments grants the capability
// in the system context or, for course scope, in the course context.
func (r *CapabilityRepository) HasCapability(ctx context.Context, userID int64, capability string, scope models.Scope) (bool, error) {
	contexts := qb.Eq("ctx.contextlevel", int(models.ScopeSystem))
	if scope.Level == models.ScopeCourse {
		contexts = qb.Or(contexts, qb.And(
			qb.Eq("ctx.contextlevel", int(models.ScopeCourse)),
			qb.Eq("ctx.instanceid", scope.InstanceID),
		))
	}
	where, args := qb.Where(
		qb.Eq("ra.userid", userID),
		qb.Eq("rc.capability", capability),
		qb.Eq("rc.permission", capabilityAllow),
		contexts,
	).SQL()
	query := r.db.Rebind(fmt.Sprintf(`SELECT COUNT(1)
        FROM %s ra
        JOIN %s ctx ON ctx.id = ra.contextid
        JOIN %s rc ON rc.roleid = ra.roleid`,
		r.schema.Table("role_assignments"), r.schema.Table("context"), r.schema.Table("role_capabilities")) + where)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check capability %s: %w", capability, err)
	}
	return count > 0, nil
}
