// Package seed creates development and demo data. Not wired into the
// production server; use cmd/seed.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"lineup/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is assigned to every seeded profile.
const DefaultPassword = "LineupSeed123"

// Seeder populates the database with generated profiles, posts,
// conversations and the metadata taxonomy.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll deletes every seeded table. Join tables go first so foreign keys
// stay satisfied on engines that enforce them.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"message_media", "conversation_participants", "messages", "conversations",
		"bookmarks", "notifications", "posts", "media", "metadata", "profiles",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Cleared all tables")
	return nil
}

// SeedMetadata inserts the taxonomy rows: tags, genres and artists.
func (s *Seeder) SeedMetadata() error {
	names := map[string][]string{
		models.MetadataTypeTag:    {"live", "festival", "acoustic", "open-mic", "vinyl", "underground"},
		models.MetadataTypeGenre:  {"house", "techno", "jazz", "hip-hop", "indie", "drum and bass", "soul"},
		models.MetadataTypeArtist: {},
	}
	for i := 0; i < 20; i++ {
		names[models.MetadataTypeArtist] = append(names[models.MetadataTypeArtist],
			gofakeit.PetName()+" "+gofakeit.HackerNoun())
	}

	var rows []models.Metadata
	for metadataType, values := range names {
		for _, name := range values {
			rows = append(rows, models.Metadata{Type: metadataType, Name: name})
		}
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d metadata rows", len(rows))
	return nil
}

// SeedProfiles creates n profiles with a shared known password.
func (s *Seeder) SeedProfiles(n int) ([]models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.Profile, 0, n)
	for i := 0; i < n; i++ {
		bio := gofakeit.Sentence(10)
		avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		year := gofakeit.Number(1960, 2005)

		profiles = append(profiles, models.Profile{
			Username:            fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:               gofakeit.Email(),
			Password:            string(hash),
			FirstName:           &first,
			LastName:            &last,
			YearOfBirth:         &year,
			Bio:                 &bio,
			AvatarURL:           &avatar,
			OnboardingCompleted: s.rng.Intn(4) != 0,
		})
	}
	if err := s.db.Create(&profiles).Error; err != nil {
		return nil, err
	}
	log.Printf("Seeded %d profiles", len(profiles))
	return profiles, nil
}

// SeedPosts creates n posts spread across the given profiles with created_at
// scattered over the last 90 days.
func (s *Seeder) SeedPosts(profiles []models.Profile, n int) ([]models.Post, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles to author posts")
	}

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := profiles[s.rng.Intn(len(profiles))]
		posts = append(posts, models.Post{
			AuthorID:  author.ID,
			Title:     gofakeit.Sentence(5),
			Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
			CreatedAt: s.pastTime(90),
		})
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return nil, err
	}
	log.Printf("Seeded %d posts", len(posts))
	return posts, nil
}

// SeedBookmarks bookmarks random posts for random profiles.
func (s *Seeder) SeedBookmarks(profiles []models.Profile, posts []models.Post, n int) error {
	seen := make(map[string]struct{}, n)
	var bookmarks []models.Bookmark
	for len(bookmarks) < n {
		p := profiles[s.rng.Intn(len(profiles))]
		post := posts[s.rng.Intn(len(posts))]
		key := p.ID + ":" + post.ID
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		bookmarks = append(bookmarks, models.Bookmark{UserID: p.ID, PostID: post.ID})
	}
	if err := s.db.Create(&bookmarks).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d bookmarks", len(bookmarks))
	return nil
}

// SeedConversations creates direct conversations between random pairs and a
// handful of group chats, each with a few messages.
func (s *Seeder) SeedConversations(profiles []models.Profile, n int) error {
	if len(profiles) < 3 {
		return fmt.Errorf("need at least 3 profiles to seed conversations")
	}

	for i := 0; i < n; i++ {
		a := profiles[s.rng.Intn(len(profiles))]
		b := profiles[s.rng.Intn(len(profiles))]
		if a.ID == b.ID {
			continue
		}

		conv := models.Conversation{
			Type:      models.ConversationTypeDirect,
			CreatedBy: a.ID,
		}
		members := []models.Profile{a, b}

		// Every fourth conversation becomes a group with a third member.
		if i%4 == 0 {
			c := profiles[s.rng.Intn(len(profiles))]
			if c.ID != a.ID && c.ID != b.ID {
				name := gofakeit.HipsterWord() + " crew"
				conv.Type = models.ConversationTypeGroup
				conv.Name = &name
				members = append(members, c)
			}
		}

		if err := s.db.Create(&conv).Error; err != nil {
			return err
		}
		for _, m := range members {
			cp := models.ConversationParticipant{
				ConversationID: conv.ID,
				ProfileID:      m.ID,
				LastReadAt:     s.pastTime(7),
			}
			if err := s.db.Create(&cp).Error; err != nil {
				return err
			}
		}

		msgCount := 2 + s.rng.Intn(8)
		for j := 0; j < msgCount; j++ {
			sender := members[s.rng.Intn(len(members))]
			msg := models.Message{
				ConversationID: conv.ID,
				SenderID:       sender.ID,
				Content:        gofakeit.Sentence(8 + s.rng.Intn(10)),
				CreatedAt:      s.pastTime(7),
			}
			if err := s.db.Create(&msg).Error; err != nil {
				return err
			}
		}
	}
	log.Printf("Seeded %d conversations", n)
	return nil
}

// SeedNotifications creates unread and read notifications for every profile.
func (s *Seeder) SeedNotifications(profiles []models.Profile, perProfile int) error {
	var rows []models.Notification
	for _, p := range profiles {
		for i := 0; i < perProfile; i++ {
			actor := profiles[s.rng.Intn(len(profiles))]
			rows = append(rows, models.Notification{
				RecipientID: p.ID,
				ActorID:     &actor.ID,
				Type:        "new_message",
				Message:     fmt.Sprintf("%s sent you a message", actor.Username),
				IsRead:      s.rng.Intn(2) == 0,
				CreatedAt:   s.pastTime(14),
			})
		}
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d notifications", len(rows))
	return nil
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(s.rng.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(s.rng.Intn(60)) * time.Minute)
}
