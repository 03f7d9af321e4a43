package controllers

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/resources"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	// 임시 데이터베이스 파일 생성
	tempFile, err := os.CreateTemp("", "controllers-*.db")
	require.NoError(t, err)
	tempFile.Close()

	db, err := gorm.Open(sqlite.Open(tempFile.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(v1alpha1.AllModels()...))

	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		os.Remove(tempFile.Name())
	}
}

func techTitles(p *v1alpha1.Project) []string {
	out := make([]string, 0, len(p.Techs))
	for _, t := range p.Techs {
		out = append(out, t.Title)
	}
	return out
}

func withTechs(p *v1alpha1.Project, ids ...uint) *v1alpha1.Project {
	for _, id := range ids {
		p.Techs = append(p.Techs, v1alpha1.Tech{Model: v1alpha1.Model{ID: id}})
	}
	return p
}

func TestProjectController_TechLinks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	stores := resources.NewStores(db)
	controller := NewProjectController(stores.Projects, resources.ProjectColumns)

	golang := &v1alpha1.Tech{Title: "Go"}
	pg := &v1alpha1.Tech{Title: "Postgres"}
	vue := &v1alpha1.Tech{Title: "Vue"}
	for _, tech := range []*v1alpha1.Tech{golang, pg, vue} {
		require.NoError(t, stores.Techs.Create(ctx, tech))
	}

	created, err := controller.Create(ctx, withTechs(&v1alpha1.Project{Title: "site", Content: "c"}, golang.ID, pg.ID, golang.ID))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Go", "Postgres"}, techTitles(created))

	key := base.ByID(created.ID)
	updated, err := controller.Update(ctx, key, withTechs(&v1alpha1.Project{Title: "site v2", Content: "c", Relevant: true}, vue.ID))
	require.NoError(t, err)
	assert.Equal(t, "site v2", updated.Title)
	assert.True(t, updated.Relevant)
	assert.Equal(t, []string{"Vue"}, techTitles(updated))

	// an unknown tech rolls the whole update back
	_, err = controller.Update(ctx, key, withTechs(&v1alpha1.Project{Title: "broken", Content: "c"}, golang.ID, 999))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	current, err := controller.Get(ctx, key, false)
	require.NoError(t, err)
	assert.Equal(t, "site v2", current.Title)
	assert.Equal(t, []string{"Vue"}, techTitles(current))

	cleared, err := controller.Update(ctx, key, &v1alpha1.Project{Title: "site v3", Content: "c"})
	require.NoError(t, err)
	assert.Empty(t, cleared.Techs)

	var links int64
	require.NoError(t, db.Table("projects_techs").Count(&links).Error)
	assert.Zero(t, links)
}

func TestProjectController_CreateRollsBackOnUnknownTech(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	stores := resources.NewStores(db)
	controller := NewProjectController(stores.Projects, resources.ProjectColumns)

	_, err := controller.Create(ctx, withTechs(&v1alpha1.Project{Title: "x", Content: "c"}, 42))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	var count int64
	require.NoError(t, db.Model(&v1alpha1.Project{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProjectController_DeletedTechIsUnknown(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	stores := resources.NewStores(db)
	controller := NewProjectController(stores.Projects, resources.ProjectColumns)

	tech := &v1alpha1.Tech{Title: "Perl"}
	require.NoError(t, stores.Techs.Create(ctx, tech))
	require.NoError(t, stores.Techs.Delete(ctx, base.ByID(tech.ID)))

	_, err := controller.Create(ctx, withTechs(&v1alpha1.Project{Title: "x", Content: "c"}, tech.ID))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
