// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/storelens/internal/models"
	"github.com/tomtom215/storelens/internal/reports"
)

// Source is the report surface the views are assembled from. It is
// satisfied by *reports.Service.
type Source interface {
	KPIs(ctx context.Context, q reports.Query) (models.KPISet, error)
	DailyRevenue(ctx context.Context, q reports.Query) ([]models.DailyRevenue, error)
	SourceMedium(ctx context.Context, q reports.Query) ([]models.SourceMedium, error)
	Channels(ctx context.Context, q reports.Query) ([]models.Channel, error)
	Funnel(ctx context.Context, q reports.Query) (models.Funnel, error)
	Products(ctx context.Context, q reports.Query) ([]models.Product, error)
	Categories(ctx context.Context, q reports.Query) ([]models.Category, error)
	CartProducts(ctx context.Context, q reports.Query) ([]models.CartProduct, error)
	Devices(ctx context.Context, q reports.Query) ([]models.Device, error)
	OperatingSystems(ctx context.Context, q reports.Query) ([]models.OperatingSystem, error)
	Regions(ctx context.Context, q reports.Query) ([]models.Region, error)
	Engagement(ctx context.Context, q reports.Query) ([]models.EngagementDay, error)
	Pages(ctx context.Context, q reports.Query) ([]models.Page, error)
	Abandonment(ctx context.Context, q reports.Query) (models.Abandonment, error)
}

// Display limits for views that show only the head of a table.
const (
	topRegions      = 20
	topCartProducts = 10
	topPages        = 3
)

// Service assembles dashboard views.
type Service struct {
	src Source
}

// New creates a dashboard service over src.
func New(src Source) *Service {
	return &Service{src: src}
}

// fetcher runs a view's independent fetches concurrently. Each fetch writes
// its own destination, so results do not depend on completion order. The
// first failure cancels the others and is returned by wait.
type fetcher struct {
	g   *errgroup.Group
	ctx context.Context
}

func newFetcher(ctx context.Context) *fetcher {
	g, gctx := errgroup.WithContext(ctx)
	return &fetcher{g: g, ctx: gctx}
}

func (f *fetcher) wait() error {
	return f.g.Wait()
}

// into schedules fn and stores its result in dst.
func into[T any](f *fetcher, dst *T, fn func(context.Context, reports.Query) (T, error), q reports.Query) {
	f.g.Go(func() error {
		v, err := fn(f.ctx, q)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	})
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
