package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/usercoursecontrol-api/pkg/config"
)

func TestDSNPostgres(t *testing.T) {
	driver, dsn, err := DSN(config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", Name: "moodle", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=moodle sslmode=disable", dsn)
}

func TestDSNMySQL(t *testing.T) {
	driver, dsn, err := DSN(config.DatabaseConfig{Driver: config.DriverMySQL, Host: "db", Port: 3306, User: "u", Password: "p", Name: "moodle"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", driver)
	assert.Contains(t, dsn, "u:p@tcp(db:3306)/moodle")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestDSNUnsupported(t *testing.T) {
	_, _, err := DSN(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSchemaTable(t *testing.T) {
	assert.Equal(t, "mdl_course", NewSchema("mdl_").Table("course"))
	assert.Equal(t, "course", NewSchema("").Table("course"))
}
