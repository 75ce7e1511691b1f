// Command seed_demo creates a demo database with a small music
// library, two accounts and some listening activity.
// Usage: go run cmd/seed_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/cantata-audio/cantata/internal/auth"
	"github.com/cantata-audio/cantata/internal/config"
	"github.com/cantata-audio/cantata/internal/database"
	"github.com/cantata-audio/cantata/internal/database/catalog"
	"github.com/cantata-audio/cantata/internal/database/history"
	"github.com/cantata-audio/cantata/internal/database/playlists"
	"github.com/cantata-audio/cantata/internal/database/recommendations"
	"github.com/cantata-audio/cantata/internal/database/users"
	"github.com/cantata-audio/cantata/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	cfg := config.Database{
		Driver:       database.DriverSQLite,
		URL:          *dbPath,
		MaxIdleConns: 2,
		MaxOpenConns: 4,
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	usersRepo := users.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	playlistsRepo := playlists.NewRepository(db.DB)
	historyRepo := history.NewRepository(db.DB)
	recsRepo := recommendations.NewRepository(db.DB, recommendations.DefaultMaxTracks)

	listener := createUser(usersRepo, "listener@example.com", "demo-password", "Demo Listener", false)
	createUser(usersRepo, "admin@example.com", "demo-password", "Demo Admin", true)

	trackIDs := createLibrary(catalogRepo)

	// A playlist with the first few tracks in order
	playlist, err := playlistsRepo.Create(listener.ID, "Demo Favourites", "Seeded picks", "", true)
	if err != nil {
		log.Fatalf("Failed to create playlist: %v", err)
	}
	for _, trackID := range trackIDs[:4] {
		if _, err := playlistsRepo.AddTrack(playlist.ID, trackID, nil); err != nil {
			log.Fatalf("Failed to add track %d to playlist: %v", trackID, err)
		}
	}
	log.Printf("Created playlist %q with %d tracks", playlist.Name, 4)

	// A couple of listens: start event, then a stop with played seconds
	for _, trackID := range trackIDs[:2] {
		if _, err := historyRepo.Record(listener.ID, trackID, 0); err != nil {
			log.Fatalf("Failed to record playback start: %v", err)
		}
		if _, err := historyRepo.Record(listener.ID, trackID, 150); err != nil {
			log.Fatalf("Failed to record playback stop: %v", err)
		}
	}

	// A pre-warmed recommendations row
	if _, err := recsRepo.Put(listener.ID, trackIDs[2:]); err != nil {
		log.Fatalf("Failed to seed recommendations: %v", err)
	}

	log.Println("Demo database generated successfully!")
}

func createUser(repo *users.Repository, email, password, displayName string, isAdmin bool) *entities.User {
	hash, err := auth.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password for %s: %v", email, err)
	}

	user, err := repo.Create(email, hash, displayName)
	if err != nil {
		log.Fatalf("Failed to create user %s: %v", email, err)
	}

	if isAdmin {
		if err := repo.SetAdmin(user.ID, true); err != nil {
			log.Fatalf("Failed to grant admin to %s: %v", email, err)
		}
	}
	log.Printf("Created user %s", email)
	return user
}

type albumSeed struct {
	title  string
	year   int
	tracks []trackSeed
}

type trackSeed struct {
	title    string
	genre    string
	duration int
}

func createLibrary(repo *catalog.Repository) []uint {
	library := map[string][]albumSeed{
		"The Midnight Harbor": {
			{
				title: "Lanterns at Low Tide",
				year:  2019,
				tracks: []trackSeed{
					{"Quayside", "ambient", 214},
					{"Signal Fires", "ambient", 187},
					{"Undertow", "ambient", 243},
				},
			},
		},
		"Vera and the Voltas": {
			{
				title: "Copper Wire",
				year:  2021,
				tracks: []trackSeed{
					{"Static Bloom", "indie rock", 201},
					{"Grid Runner", "indie rock", 176},
					{"Last Transmission", "indie rock", 228},
				},
			},
		},
	}

	var trackIDs []uint
	for artistName, albums := range library {
		artist := &entities.Artist{Name: artistName}
		if err := repo.CreateArtist(artist); err != nil {
			log.Fatalf("Failed to create artist %s: %v", artistName, err)
		}

		for _, seed := range albums {
			album := &entities.Album{
				Title:       seed.title,
				ArtistID:    artist.ID,
				ReleaseYear: seed.year,
			}
			if err := repo.CreateAlbum(album); err != nil {
				log.Fatalf("Failed to create album %s: %v", seed.title, err)
			}

			for _, ts := range seed.tracks {
				track := &entities.Track{
					Title:           ts.title,
					ArtistID:        artist.ID,
					AlbumID:         &album.ID,
					Genre:           ts.genre,
					DurationSeconds: ts.duration,
				}
				if err := repo.CreateTrack(track); err != nil {
					log.Fatalf("Failed to create track %s: %v", ts.title, err)
				}
				trackIDs = append(trackIDs, track.ID)
			}
			log.Printf("Saved: %s by %s (%d tracks)", seed.title, artistName, len(seed.tracks))
		}
	}
	return trackIDs
}
