// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package export

import (
	"fmt"

	"github.com/tomtom215/storelens/internal/compare"
	"github.com/tomtom215/storelens/internal/dashboard"
	"github.com/tomtom215/storelens/internal/kpi"
	"github.com/tomtom215/storelens/internal/models"
)

// ViewSheets lays out a dashboard view as workbook sheets.
func ViewSheets(view any) ([]Sheet, error) {
	switch v := view.(type) {
	case *dashboard.Summary:
		return []Sheet{
			kpiSheet(v.KPIs, v.PreviousKPIs, v.Variance),
			Table("Destaques", []models.Highlights{v.Highlights}),
		}, nil

	case *dashboard.Sales:
		return []Sheet{
			kpiSheet(v.KPIs, v.PreviousKPIs, v.Variance),
			funnelSheet(v.Funnel),
			Table("Receita diária", v.DailyRevenue),
		}, nil

	case *dashboard.Products:
		return []Sheet{
			Table("Produtos", v.Overview),
			Table("Totais", []kpi.ProductTotals{v.Totals}),
			Table("Categorias", v.Categories),
		}, nil

	case *dashboard.Channels:
		sheets := []Sheet{Table("Canais", v.Channels)}
		if v.Compared {
			sheets = append(sheets, Table("Comparação", v.Comparison))
		}
		return append(sheets,
			Table("Pago x Orgânico", v.Groups),
			Table("Origem e mídia", v.SourceMedium),
		), nil

	case *dashboard.Engagement:
		sheets := []Sheet{
			Table("Regiões", v.TopRegions),
			Table("Estados", v.RegionTotals),
			Table("Engajamento diário", v.Days),
		}
		if v.Latest != nil {
			sheets = append(sheets, Table("Último dia", []compare.EngagementChange{*v.Latest}))
		}
		return append(sheets,
			Table("Dias da semana", v.Weekdays),
			Table("Dispositivos", v.Devices),
			Table("Sistemas", v.OperatingSystems),
		), nil

	case *dashboard.Pages:
		return []Sheet{
			Table("Páginas", v.Pages),
			Table("Abandono", []models.Abandonment{v.Abandonment}),
			Table("Carrinho", v.CartProducts),
		}, nil

	default:
		return nil, fmt.Errorf("no workbook layout for %T", view)
	}
}

func kpiSheet(cur, prev models.KPISet, variance compare.KPIVariance) Sheet {
	return Sheet{
		Name:   "KPIs",
		Header: []string{"indicador", "atual", "anterior", "variacao"},
		Rows: [][]any{
			{"receita_total", cur.TotalRevenue, prev.TotalRevenue, variance.Revenue.String()},
			{"pedidos", cur.OrderCount, prev.OrderCount, variance.Orders.String()},
			{"taxa_conversao", cur.ConversionRate, prev.ConversionRate, variance.ConversionRate.String()},
			{"ticket_medio", cur.AverageOrderValue, prev.AverageOrderValue, variance.AverageOrderValue.String()},
		},
	}
}

func funnelSheet(f models.Funnel) Sheet {
	return Sheet{
		Name:   "Funil",
		Header: []string{"etapa", "eventos"},
		Rows: [][]any{
			{"sessao", f.Session},
			{"carrinho", f.Cart},
			{"checkout", f.Checkout},
			{"compra", f.Purchase},
		},
	}
}
