package posts

import (
	"FoodieFriends/internal/docstore"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RecountLikes walks every post newest first and rewrites likeCount from the
// size of the likes set wherever the two have drifted apart.
// It returns the number of posts that were corrected.
func RecountLikes(ctx context.Context, store docstore.Store, repo Repository, pageSize int, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	fixed := 0
	scanned := 0
	var before *time.Time
	for {
		page, err := repo.ListByCreatedAt(ctx, before, pageSize)
		if err != nil {
			return fixed, err
		}
		if len(page) == 0 {
			break
		}

		b := store.Batch()
		for _, post := range page {
			if post.LikeCount == len(post.Likes) {
				continue
			}
			logger.Debug("correcting like count", "post_id", post.ID, "stored", post.LikeCount, "actual", len(post.Likes))
			repo.SetLikeCount(b, post.ID, len(post.Likes))
		}
		if n := b.Len(); n > 0 {
			if err := b.Commit(ctx); err != nil {
				return fixed, fmt.Errorf("failed to write like counts: %w", err)
			}
			fixed += n
		}

		scanned += len(page)
		if len(page) < pageSize {
			break
		}
		last := page[len(page)-1].CreatedAt
		before = &last
	}

	logger.Info("like counts reindexed", "scanned", scanned, "corrected", fixed)
	return fixed, nil
}
