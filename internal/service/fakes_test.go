package service

import (
	"context"
	"database/sql"

	"github.com/noah-isme/usercoursecontrol-api/internal/models"
)

type capabilityKey struct {
	userID     int64
	capability string
	courseID   int64
}

type fakeAuthorizer struct {
	granted map[capabilityKey]bool
	checks  []capabilityKey
	err     error
}

func newFakeAuthorizer() *fakeAuthorizer {
	return &fakeAuthorizer{granted: map[capabilityKey]bool{}}
}

func (f *fakeAuthorizer) grant(userID int64, capability string, courseID int64) *fakeAuthorizer {
	f.granted[capabilityKey{userID, capability, courseID}] = true
	return f
}

func (f *fakeAuthorizer) Can(ctx context.Context, actor models.Actor, capability string, scope models.Scope) (bool, error) {
	key := capabilityKey{actor.UserID, capability, scope.InstanceID}
	f.checks = append(f.checks, key)
	if f.err != nil {
		return false, f.err
	}
	return f.granted[key], nil
}

type fakeCourses struct {
	courses map[int64]models.Course
}

func (f *fakeCourses) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

type fakeUsers struct {
	users map[string]models.User
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

var (
	testCourse  = models.Course{ID: 7, Fullname: "Biology 101", Shortname: "BIO101"}
	testStudent = models.User{ID: 42, Username: "student1"}
	testTeacher = models.Actor{UserID: 3, Username: "teacher1"}
)

func testDirectory() (*fakeCourses, *fakeUsers) {
	return &fakeCourses{courses: map[int64]models.Course{testCourse.ID: testCourse}},
		&fakeUsers{users: map[string]models.User{testStudent.Username: testStudent}}
}
