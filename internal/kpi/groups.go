// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package kpi

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/tomtom215/storelens/internal/models"
)

// Channel group labels.
const (
	GroupPaid    = "Pago"
	GroupOrganic = "Orgânico"
)

var paidMarkers = []string{"paid", "ads", "cpc"}

// ChannelGroup sums revenue and conversions for paid or organic channels.
type ChannelGroup struct {
	Group       string  `json:"group"`
	Revenue     float64 `json:"revenue"`
	Conversions int64   `json:"conversions"`
}

// ChannelGroupOf classifies a channel name as GroupPaid or GroupOrganic.
func ChannelGroupOf(channel string) string {
	name := strings.ToLower(channel)
	for _, marker := range paidMarkers {
		if strings.Contains(name, marker) {
			return GroupPaid
		}
	}
	return GroupOrganic
}

// GroupPaidOrganic totals channels by group. Only groups with at least one
// channel are returned, ordered by group name.
func GroupPaidOrganic(channels []models.Channel) []ChannelGroup {
	byGroup := lo.GroupBy(channels, func(c models.Channel) string { return ChannelGroupOf(c.Channel) })

	groups := make([]ChannelGroup, 0, len(byGroup))
	for name, members := range byGroup {
		groups = append(groups, ChannelGroup{
			Group:       name,
			Revenue:     lo.SumBy(members, func(c models.Channel) float64 { return c.Revenue }),
			Conversions: lo.SumBy(members, func(c models.Channel) int64 { return c.Conversions }),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })
	return groups
}

// WeekdayAverage is the mean daily sessions for one weekday.
type WeekdayAverage struct {
	Weekday  string  `json:"weekday"`
	Sessions float64 `json:"sessions"`
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// WeekdayAverages returns mean sessions per weekday, Monday through Sunday.
// Weekdays without data average 0.
func WeekdayAverages(days []models.EngagementDay) []WeekdayAverage {
	var sums, counts [7]float64
	for _, d := range days {
		wd := d.Date.Weekday()
		sums[wd] += float64(d.Sessions)
		counts[wd]++
	}

	out := make([]WeekdayAverage, 0, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		avg := 0.0
		if counts[wd] > 0 {
			avg = sums[wd] / counts[wd]
		}
		out = append(out, WeekdayAverage{Weekday: weekdayNames[wd], Sessions: avg})
	}
	return out
}

// ProductTotals sums the product overview.
type ProductTotals struct {
	AddsToCart int64   `json:"adds_to_cart"`
	Purchased  int64   `json:"purchased"`
	Revenue    float64 `json:"revenue"`
	ARPPU      float64 `json:"arppu"`
}

// TotalProducts sums adds, purchases and revenue. ARPPU is revenue per item
// purchased.
func TotalProducts(rows []models.ProductOverview) ProductTotals {
	t := ProductTotals{
		AddsToCart: lo.SumBy(rows, func(r models.ProductOverview) int64 { return r.AddsToCart }),
		Purchased:  lo.SumBy(rows, func(r models.ProductOverview) int64 { return r.Purchased }),
		Revenue:    lo.SumBy(rows, func(r models.ProductOverview) float64 { return r.Revenue }),
	}
	t.ARPPU = AverageOrderValue(t.Revenue, t.Purchased)
	return t
}

// RegionTotal is total sessions for one state.
type RegionTotal struct {
	Region   string `json:"region"`
	State    string `json:"state"`
	Sessions int64  `json:"sessions"`
}

// StateName strips the GA4 "State of " prefix and localizes the federal
// district so the name matches Brazilian state boundary data.
func StateName(region string) string {
	name := strings.ReplaceAll(region, "State of ", "")
	return strings.ReplaceAll(name, "Federal District", "Distrito Federal")
}

// RegionTotals sums sessions per region, ordered by region name.
func RegionTotals(regions []models.Region) []RegionTotal {
	sums := make(map[string]int64)
	for _, r := range regions {
		sums[r.Region] += r.Sessions
	}

	keys := lo.Keys(sums)
	sort.Strings(keys)

	out := make([]RegionTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, RegionTotal{Region: k, State: StateName(k), Sessions: sums[k]})
	}
	return out
}
