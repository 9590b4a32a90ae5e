package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix       = "user:%d"
	PostKeyPrefix       = "post:%d"
	GroupKeyPrefix      = "group:%d"
	MembershipKeyPrefix = "group:%d:member:%d"
)

const (
	UserTTL       = 5 * time.Minute
	PostTTL       = 30 * time.Minute
	GroupTTL      = 10 * time.Minute
	MembershipTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GroupKey(groupID uint) string {
	return fmt.Sprintf(GroupKeyPrefix, groupID)
}

func MembershipKey(groupID, userID uint) string {
	return fmt.Sprintf(MembershipKeyPrefix, groupID, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateMembership(ctx context.Context, groupID, userID uint) {
	Invalidate(ctx, MembershipKey(groupID, userID))
}
