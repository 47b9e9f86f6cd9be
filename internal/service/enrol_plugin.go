package service

import (
	"context"
	"strings"
	"time"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
)

// EnrolPlugin changes the status of a user's enrolment under one of its instances.
type EnrolPlugin interface {
	UpdateUserEnrol(ctx context.Context, instance models.EnrolInstance, userID int64, status models.EnrolmentStatus, actor models.Actor) error
}

type enrolStatusWriter interface {
	UpdateUserEnrolStatus(ctx context.Context, enrolID, userID int64, status models.EnrolmentStatus, modifierID, modifiedAt int64) error
}

// statusUpdatePlugin is the generic path shared by the built-in enrol methods.
type statusUpdatePlugin struct {
	writer enrolStatusWriter
	now    func() time.Time
}

func (p *statusUpdatePlugin) UpdateUserEnrol(ctx context.Context, instance models.EnrolInstance, userID int64, status models.EnrolmentStatus, actor models.Actor) error {
	return p.writer.UpdateUserEnrolStatus(ctx, instance.ID, userID, status, actor.UserID, p.now().Unix())
}

// EnrolPluginRegistry resolves enrol methods to their plugin.
type EnrolPluginRegistry struct {
	plugins map[string]EnrolPlugin
}

// NewEnrolPluginRegistry registers the generic status-update plugin under each method name.
func NewEnrolPluginRegistry(writer enrolStatusWriter, methods []string, now func() time.Time) *EnrolPluginRegistry {
	if now == nil {
		now = time.Now
	}
	registry := &EnrolPluginRegistry{plugins: make(map[string]EnrolPlugin, len(methods))}
	generic := &statusUpdatePlugin{writer: writer, now: now}
	for _, method := range methods {
		registry.Register(method, generic)
	}
	return registry
}

// Register installs or replaces the plugin for a method.
func (r *EnrolPluginRegistry) Register(method string, plugin EnrolPlugin) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" || plugin == nil {
		return
	}
	r.plugins[method] = plugin
}

// Lookup returns the plugin for a method.
func (r *EnrolPluginRegistry) Lookup(method string) (EnrolPlugin, bool) {
	plugin, ok := r.plugins[strings.ToLower(method)]
	return plugin, ok
}
