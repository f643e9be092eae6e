package projections

import (
	"context"
	"errors"
	"sort"

	"clubhouse/internal/application/listutil"
	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/club"
)

// ListActivityQuery carries query parameters.
type ListActivityQuery struct {
	Filter activity.Filter
	Page   listutil.PageParams
}

// ActivityItem is an entry with its display label.
type ActivityItem struct {
	activity.Entry
	Label string `json:"label"`
}

// ListActivityResult carries the query result.
type ListActivityResult struct {
	Items []ActivityItem `json:"items"`
	listutil.PageInfo
}

// ListActivityDeps holds dependencies for ListActivity.
type ListActivityDeps struct {
	Store SnapshotReader
}

var errActivityType = errors.New("unknown activity type")

// QueryListActivity pages through the activity log newest first.
// PRE: Filter.Type is empty or a known type
// POST: Total counts entries matching the filter
func QueryListActivity(ctx context.Context, query ListActivityQuery, deps ListActivityDeps) (ListActivityResult, error) {
	if query.Filter.Type != "" && !activity.KnownType(query.Filter.Type) {
		return ListActivityResult{}, badQuery(errActivityType)
	}
	var matched []activity.Entry
	err := deps.Store.View(ctx, func(s club.Snapshot) error {
		// Walk backwards so entries sharing a timestamp stay newest first.
		for i := len(s.Activity) - 1; i >= 0; i-- {
			if e := s.Activity[i]; query.Filter.Matches(e) {
				matched = append(matched, e)
			}
		}
		return nil
	})
	if err != nil {
		return ListActivityResult{}, err
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Timestamp > matched[j].Timestamp })

	info := listutil.NewPageInfo(query.Page.Page, query.Page.Limit, len(matched))
	page := listutil.Slice(matched, info)
	items := make([]ActivityItem, 0, len(page))
	for _, e := range page {
		items = append(items, ActivityItem{Entry: e, Label: activity.Label(e.Type)})
	}
	return ListActivityResult{Items: items, PageInfo: info}, nil
}
