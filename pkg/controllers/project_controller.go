package controllers

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/base"
)

type projectController struct {
	ResourceController[v1alpha1.Project]
	store   base.Store[v1alpha1.Project]
	columns []string
}

// NewProjectController keeps a project and its tech links consistent: the
// row and the projects_techs rows are written in one transaction.
func NewProjectController(store base.Store[v1alpha1.Project], columns []string) ResourceController[v1alpha1.Project] {
	return &projectController{
		ResourceController: NewResourceController(store, columns),
		store:              store,
		columns:            columns,
	}
}

func (c *projectController) Create(ctx context.Context, project *v1alpha1.Project) (*v1alpha1.Project, error) {
	ids := techIDs(project.Techs)

	err := c.store.Transaction(ctx, func(tx *gorm.DB) error {
		techs, err := loadTechs(tx, ids)
		if err != nil {
			return err
		}
		if err := c.store.WithTx(tx).Create(ctx, project); err != nil {
			return err
		}
		return replaceTechs(tx, project, techs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return c.ResourceController.Get(ctx, base.ByID(project.ID), false)
}

func (c *projectController) Update(ctx context.Context, key base.Key, project *v1alpha1.Project) (*v1alpha1.Project, error) {
	ids := techIDs(project.Techs)

	var updated *v1alpha1.Project
	err := c.store.Transaction(ctx, func(tx *gorm.DB) error {
		techs, err := loadTechs(tx, ids)
		if err != nil {
			return err
		}
		updated, err = c.store.WithTx(tx).Update(ctx, key, project, c.columns...)
		if err != nil {
			return err
		}
		return replaceTechs(tx, updated, techs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return c.ResourceController.Get(ctx, base.ByID(updated.ID), false)
}

func techIDs(techs []v1alpha1.Tech) []uint {
	seen := make(map[uint]struct{}, len(techs))
	ids := make([]uint, 0, len(techs))
	for _, t := range techs {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		ids = append(ids, t.ID)
	}
	return ids
}

// loadTechs fails when any id does not name a live tech.
func loadTechs(tx *gorm.DB, ids []uint) ([]v1alpha1.Tech, error) {
	techs := make([]v1alpha1.Tech, 0, len(ids))
	if len(ids) == 0 {
		return techs, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&techs).Error; err != nil {
		return nil, err
	}
	if len(techs) != len(ids) {
		return nil, errors.ErrInvalidInput.WithReason("unknown tech id")
	}
	return techs, nil
}

func replaceTechs(tx *gorm.DB, project *v1alpha1.Project, techs []v1alpha1.Tech) error {
	assoc := tx.Model(project).Association("Techs")
	if len(techs) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(techs)
}
