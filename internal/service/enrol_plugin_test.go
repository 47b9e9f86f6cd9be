package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
)

type statusUpdate struct {
	enrolID, userID        int64
	status                 models.EnrolmentStatus
	modifierID, modifiedAt int64
}

type recordingStatusWriter struct {
	updates []statusUpdate
}

func (w *recordingStatusWriter) UpdateUserEnrolStatus(ctx context.Context, enrolID, userID int64, status models.EnrolmentStatus, modifierID, modifiedAt int64) error {
	w.updates = append(w.updates, statusUpdate{enrolID, userID, status, modifierID, modifiedAt})
	return nil
}

func TestEnrolPluginRegistryGenericUpdate(t *testing.T) {
	writer := &recordingStatusWriter{}
	now := time.Unix(1700000000, 0)
	registry := NewEnrolPluginRegistry(writer, []string{"manual", " Self "}, func() time.Time { return now })

	plugin, ok := registry.Lookup("self")
	require.True(t, ok)
	_, ok = registry.Lookup("paypal")
	assert.False(t, ok)

	err := plugin.UpdateUserEnrol(context.Background(), models.EnrolInstance{ID: 11, CourseID: 7, Enrol: "self"}, 42, models.EnrolmentStatusActive, testTeacher)
	require.NoError(t, err)
	assert.Equal(t, []statusUpdate{{enrolID: 11, userID: 42, status: models.EnrolmentStatusActive, modifierID: 3, modifiedAt: 1700000000}}, writer.updates)
}
