// Command seed populates the database with generated demo data.
package main

import (
	"flag"
	"log"

	"lineup/internal/config"
	"lineup/internal/database"
	"lineup/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 50, "Number of profiles to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	numConversations := flag.Int("conversations", 40, "Number of conversations to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.SeedMetadata(); err != nil {
		log.Fatalf("Metadata seeding failed: %v", err)
	}
	profiles, err := s.SeedProfiles(*numProfiles)
	if err != nil {
		log.Fatalf("Profile seeding failed: %v", err)
	}
	posts, err := s.SeedPosts(profiles, *numPosts)
	if err != nil {
		log.Fatalf("Post seeding failed: %v", err)
	}
	if err := s.SeedBookmarks(profiles, posts, *numPosts/2); err != nil {
		log.Fatalf("Bookmark seeding failed: %v", err)
	}
	if err := s.SeedConversations(profiles, *numConversations); err != nil {
		log.Fatalf("Conversation seeding failed: %v", err)
	}
	if err := s.SeedNotifications(profiles, 5); err != nil {
		log.Fatalf("Notification seeding failed: %v", err)
	}

	log.Println("Done. All seeded profiles use the password:", seed.DefaultPassword)
}
