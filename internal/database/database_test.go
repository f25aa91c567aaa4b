package database_test

import (
	"testing"

	"gerenciador/internal/database"
	"gerenciador/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesProducts(t *testing.T) {
	db, err := database.Open("sqlite", "file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasColumn(&models.Product{}, "expiration_date"))
	assert.True(t, db.Migrator().HasColumn(&models.Product{}, "image"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}
