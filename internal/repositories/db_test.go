package repositories_test

import (
	"context"
	"testing"

	"github.com/rohits-web03/filebridge/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGormLoggerWritesToZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	db, err := gorm.Open(sqlite.Open("file:gormlogger?mode=memory&cache=shared"), &gorm.Config{
		Logger: repositories.NewGormLogger(zap.New(core)),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.WithContext(context.Background()).Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)

	entries := logs.FilterLoggerName("gorm").All()
	require.NotEmpty(t, entries, "failed statements are logged through zap")
	assert.Contains(t, entries[0].Message, "no_such_table")
}
