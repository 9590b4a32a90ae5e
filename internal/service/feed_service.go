// Package service contains the business logic layer, sitting between HTTP
// handlers and repositories.
package service

import (
	"context"
	"fmt"

	"glimpse/internal/models"
	"glimpse/internal/observability"
	"glimpse/internal/repository"
)

// FeedService serves randomized, deduplicated feed batches. The server holds
// no per-client session state: every request carries the full set of post IDs
// the client has already seen, and the response returns the updated set.
type FeedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	pageSize  int
}

type FetchBatchInput struct {
	RequesterID uint
	GroupID     *uint
	SeenIDs     []uint
}

// FeedBatch is one page of the feed. An empty Posts slice means the requester
// has exhausted the current scope. Authorized is false when a group scope was
// requested but the requester is not a member; the batch then contains public
// posts instead.
type FeedBatch struct {
	Posts      []*models.Post `json:"posts"`
	SeenIDs    []uint         `json:"seen_ids"`
	Authorized bool           `json:"authorized"`
	Message    string         `json:"message,omitempty"`
}

func NewFeedService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = 2
	}
	return &FeedService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		pageSize:  pageSize,
	}
}

// FetchBatch returns the next batch of unseen posts for the requester.
//
// A group scope is honored only when the requester is a member; otherwise the
// batch silently falls back to the public feed with Authorized set to false.
// A nonexistent group counts as unauthorized, so group IDs cannot be probed.
func (s *FeedService) FetchBatch(ctx context.Context, in FetchBatchInput) (*FeedBatch, error) {
	seen := dedupeIDs(in.SeenIDs)

	scope := in.GroupID
	authorized := true
	message := ""
	if in.GroupID != nil {
		member, err := s.groupRepo.IsMember(ctx, *in.GroupID, in.RequesterID)
		if err != nil {
			return nil, err
		}
		if !member {
			scope = nil
			authorized = false
			message = fmt.Sprintf("You are not a member of group %d. Showing public posts instead.", *in.GroupID)
		}
	}

	posts, err := s.postRepo.SampleFeed(ctx, in.RequesterID, scope, seen, s.pageSize)
	if err != nil {
		return nil, err
	}

	newSeen := seen
	for _, p := range posts {
		newSeen = append(newSeen, p.ID)
	}

	scopeLabel := "public"
	if scope != nil {
		scopeLabel = "group"
	}
	observability.RecordFeedBatch(scopeLabel, authorized, len(posts))

	return &FeedBatch{
		Posts:      posts,
		SeenIDs:    newSeen,
		Authorized: authorized,
		Message:    message,
	}, nil
}

// dedupeIDs drops zero values and duplicates while preserving order. Clients
// echo the server's set back verbatim, but the input is untrusted.
func dedupeIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint, 0, len(ids))
	known := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := known[id]; ok {
			continue
		}
		known[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
