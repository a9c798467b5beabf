package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"memberdir/internal/config"
	"memberdir/internal/db"
	"memberdir/internal/model"
	"memberdir/internal/repository"
)

// SeedMemberData is one record in the import file.
type SeedMemberData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	Birthdate string `json:"birthdate,omitempty"`
}

func main() {
	file := flag.String("file", "members.json", "path to a JSON array of members to import")
	flag.Parse()

	log.Println("Starting seed script...")

	godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Member{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	records, err := readMembersFile(*file)
	if err != nil {
		log.Fatalf("Failed to read members: %v", err)
	}
	log.Printf("Read %d members from %s", len(records), *file)

	members := make([]model.Member, 0, len(records))
	skipped := 0
	for _, item := range records {
		if item.Username == "" || item.Email == "" || item.Password == "" {
			log.Printf("Skipping member with missing required fields: %q", item.Username)
			skipped++
			continue
		}
		members = append(members, model.Member{
			Username:  item.Username,
			Email:     item.Email,
			Password:  item.Password,
			Phone:     optional(item.Phone),
			Birthdate: optional(item.Birthdate),
		})
	}
	if skipped > 0 {
		log.Printf("Skipped %d invalid members", skipped)
	}

	memberRepo := repository.NewMemberRepository(gormDB)
	created, existing, err := seedMembers(context.Background(), memberRepo, members)
	if err != nil {
		log.Fatalf("Failed to seed members: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New members created: %d", created)
	log.Printf("  - Already present: %d", existing)
}

// readMembersFile parses the JSON import file.
func readMembersFile(path string) ([]SeedMemberData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []SeedMemberData
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return records, nil
}

// seedMembers inserts members that are not already registered, keyed by
// username. Running the import twice changes nothing the second time.
func seedMembers(ctx context.Context, repo repository.MemberRepository, members []model.Member) (created int, existing int, err error) {
	for i := range members {
		ok, err := repo.CreateIfAbsent(ctx, &members[i])
		if err != nil {
			return created, existing, fmt.Errorf("error seeding member %q: %w", members[i].Username, err)
		}
		if ok {
			created++
		} else {
			existing++
		}
	}
	return created, existing, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
