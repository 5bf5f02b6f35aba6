package results

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/index"
)

const (
	// groupFetchFloor is the minimum size of the second fetch that
	// collects every member of the matched groups.
	groupFetchFloor = 100
	// groupFetchPerGroup scales the second fetch with the number of
	// distinct groups in the ranked hits.
	groupFetchPerGroup = 10
)

// Record is the canonical display form of one retrieved segment.
type Record struct {
	DocID     string  `json:"doc_id,omitempty"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	VideoLink string  `json:"video_link"`
	DeepLink  string  `json:"deep_link"`
	Score     float64 `json:"score"`
	Question  string  `json:"question,omitempty"`
	Answer    string  `json:"answer,omitempty"`
}

// Aggregator converts ranked hits into presentation records, either flat
// or reconstructed into ordered conversation groups.
type Aggregator struct {
	client    index.Client
	indexName string
	logger    *slog.Logger
}

// NewAggregator creates an aggregator fetching group members from the
// given index.
func NewAggregator(client index.Client, indexName string) *Aggregator {
	return &Aggregator{
		client:    client,
		indexName: indexName,
		logger:    slog.Default().With("component", "aggregator"),
	}
}

// record derives the display record for one segment. Derivation depends
// only on stored attributes, so the same segment always yields the same
// record regardless of which query retrieved it.
func record(seg *core.Segment, score float64) Record {
	return Record{
		DocID:     seg.DocID,
		Text:      seg.Text,
		Timestamp: FormatTimestamp(seg.Start),
		Start:     seg.Start,
		End:       seg.End,
		VideoLink: seg.VideoLink,
		DeepLink:  DeepLink(seg.VideoLink, seg.Start),
		Score:     score,
		Question:  seg.Question,
		Answer:    seg.Answer,
	}
}

// Flatten converts ranked hits into display records, preserving hit order.
func (a *Aggregator) Flatten(hits []index.Hit) []Record {
	records := make([]Record, 0, len(hits))
	for i := range hits {
		records = append(records, record(&hits[i].Segment, hits[i].Score))
	}
	return records
}

// Group reconstructs ordered conversation groups from ranked hits.
//
// It collects the distinct group identifiers from the hits, fetches every
// segment belonging to those groups in one larger query, and partitions
// the fetch by identifier. Identifiers are compared byte-exact; a casing
// difference is a different group. Groups are emitted in the order they
// were first seen in the ranked hits, and items within a group are sorted
// by sequence ascending. Hits without a group identifier contribute no
// group; if none of the hits carry one the result is empty, not an error.
func (a *Aggregator) Group(ctx context.Context, hits []index.Hit) ([]core.ConversationGroup, error) {
	var order []string
	seen := make(map[string]bool)
	matched := make(map[string]float64)

	for i := range hits {
		matched[hits[i].ID] = hits[i].Score

		gid := hits[i].Segment.GroupID
		if gid == "" || seen[gid] {
			continue
		}
		seen[gid] = true
		order = append(order, gid)
	}

	if len(order) == 0 {
		return nil, nil
	}

	size := groupFetchFloor
	if scaled := groupFetchPerGroup * len(order); scaled > size {
		size = scaled
	}

	ids := make([]any, len(order))
	for i, gid := range order {
		ids[i] = gid
	}

	res, err := a.client.Search(ctx, a.indexName, &index.Request{
		Query: map[string]any{
			"terms": map[string]any{"group_id": ids},
		},
		Size: size,
		Sort: []index.SortField{
			{Field: "group_id", Ascending: true},
			{Field: "sequence", Ascending: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching group members: %w", err)
	}

	members := make(map[string][]core.GroupItem, len(order))
	for i := range res.Hits {
		hit := &res.Hits[i]
		gid := hit.Segment.GroupID
		if !seen[gid] {
			// The fetch is keyed by exact identifiers, but a lax
			// index analyzer could still return near-matches.
			a.logger.Warn("dropping group member with foreign group id", "group_id", gid)
			continue
		}

		item := core.GroupItem{Segment: hit.Segment}
		if score, ok := matched[hit.ID]; ok {
			item.IsMatch = true
			item.Score = score
		}
		members[gid] = append(members[gid], item)
	}

	groups := make([]core.ConversationGroup, 0, len(order))
	for _, gid := range order {
		items := members[gid]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Sequence < items[j].Sequence
		})
		groups = append(groups, core.ConversationGroup{
			GroupID: gid,
			Items:   items,
		})
	}

	return groups, nil
}
