// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package llm

import (
	"context"
	"sort"
	"strings"
)

// Discover lists the backend's models and keeps those matching a priority
// prefix, best rank first. Models of equal rank keep the backend's order.
func (c *Client) Discover(ctx context.Context) ([]string, error) {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, providerError("list models", err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return RankModels(ids, c.prefixes), nil
}

// RankModels filters ids to those starting with one of prefixes and orders
// them by the index of the first matching prefix.
func RankModels(ids, prefixes []string) []string {
	type ranked struct {
		id   string
		rank int
	}
	var matches []ranked
	for _, id := range ids {
		for i, p := range prefixes {
			if strings.HasPrefix(id, p) {
				matches = append(matches, ranked{id: id, rank: i})
				break
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.id
	}
	return out
}
