//go:build ignore

// Seeds a development store with demo accounts, posts, follows and engagement.
//
// Usage:
//
//	STORE_BACKEND=bolt IS_DEV_ENV=true go run scripts/seed_demo_data.go
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"FoodieFriends/internal/auth"
	"FoodieFriends/internal/config"
	"FoodieFriends/internal/core/engagement"
	"FoodieFriends/internal/core/follows"
	"FoodieFriends/internal/core/posts"
	"FoodieFriends/internal/core/users"
	"FoodieFriends/internal/db"
)

const demoPassword = "Foodie#2024"

var firstNames = []string{
	"Sarah", "Michael", "Jessica", "David", "Emily", "James", "Ashley", "Robert",
	"Jennifer", "William", "Amanda", "Daniel",
}

var dishes = []struct {
	Title string
	Body  string
}{
	{"Tonkotsu ramen on 5th", "Broth simmered for 18 hours, the chashu melts. Go before noon, the line gets long."},
	{"Best tacos al pastor", "The trompo spot behind the market. Ask for extra pineapple and the green salsa."},
	{"Hidden dim sum gem", "Har gow with paper-thin skins and a turnip cake worth the trip alone."},
	{"Neapolitan pizza night", "Leopard-spotted crust, San Marzano sauce, fior di latte. Wood oven at 480°C."},
	{"Sunday brunch pick", "Ricotta pancakes with lemon curd. Reservations only on weekends."},
	{"Pho for cold days", "Clear, spiced broth and rare beef sliced to order. Cash only."},
	{"Croissant worth queuing for", "Seventy-two hour lamination, shatters everywhere. Sells out by nine."},
	{"Korean fried chicken", "Double fried, soy garlic glaze. Get the pickled radish on the side."},
}

var commentBodies = []string{
	"Adding this to my list!",
	"Went last week, can confirm it's amazing.",
	"Is it kid friendly?",
	"The portions are huge, bring a friend.",
	"Tried it after your post. No regrets.",
	"Do they take reservations?",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.IsDevEnv {
		log.Fatal("Refusing to seed outside IS_DEV_ENV=true")
	}

	ctx := context.Background()
	store, _, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer store.Close()

	provider, err := auth.NewProvider(store, auth.Config{Secret: []byte(cfg.TokenSecret), TokenTTL: cfg.TokenTTL}, nil)
	if err != nil {
		log.Fatalf("Failed to create identity provider: %v", err)
	}

	userRepo := users.NewRepository(store)
	postRepo := posts.NewRepository(store)
	postService := posts.NewPostService(store, postRepo, userRepo, cfg.PageSize, nil)
	userService := users.NewUserService(store, userRepo, provider, postService, nil)
	engagementService := engagement.NewEngagementService(store, postRepo, userRepo, nil)
	followService := follows.NewFollowService(store, userRepo, nil)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var uids []string
	for _, name := range firstNames {
		email := fmt.Sprintf("%s@demo.foodiefriends.dev", strings.ToLower(name))
		session, err := userService.Register(ctx, users.RegisterRequest{Email: email, Password: demoPassword, FirstName: name})
		if err != nil {
			session, err = userService.Login(ctx, users.LoginRequest{Email: email, Password: demoPassword})
			if err != nil {
				log.Printf("Warning: skipping %s: %v", email, err)
				continue
			}
		}
		uids = append(uids, session.User.UID)
	}
	log.Printf("Seeded %d accounts (password %q)", len(uids), demoPassword)
	if len(uids) < 2 {
		log.Fatal("Need at least two accounts to seed interactions")
	}

	var postIDs []string
	for i, dish := range dishes {
		post, err := postService.CreatePost(ctx, uids[i%len(uids)], posts.CreatePostRequest{Title: dish.Title, Body: dish.Body})
		if err != nil {
			log.Printf("Warning: failed to create post %q: %v", dish.Title, err)
			continue
		}
		postIDs = append(postIDs, post.ID)
	}
	log.Printf("Created %d posts", len(postIDs))

	followCount := 0
	for _, uid := range uids {
		for _, target := range uids {
			if uid == target || rng.Intn(3) != 0 {
				continue
			}
			if _, err := followService.ToggleFollow(ctx, uid, target); err == nil {
				followCount++
			}
		}
	}

	likes, shares, commented := 0, 0, 0
	for _, postID := range postIDs {
		for _, uid := range uids {
			switch rng.Intn(6) {
			case 0, 1:
				if _, err := engagementService.ToggleLike(ctx, uid, postID); err == nil {
					likes++
				}
			case 2:
				if _, err := postService.SharePost(ctx, uid, postID); err == nil {
					shares++
				}
			case 3:
				if _, err := engagementService.ToggleBookmark(ctx, uid, postID); err != nil {
					log.Printf("Warning: bookmark failed: %v", err)
				}
			case 4:
				body := commentBodies[rng.Intn(len(commentBodies))]
				if _, err := engagementService.AddComment(ctx, uid, engagement.CommentRequest{PostID: postID, Body: body}); err == nil {
					commented++
				}
			}
		}
	}

	log.Printf("✓ Seeded %d follows, %d likes, %d shares, %d comments", followCount, likes, shares, commented)
}
