// Command devtoken mints HS256 access tokens for local development. With -d
// it first seeds a verified user with an active subscription and mints the
// token for that user.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/common"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/auth"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/models"
	"github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/repositories/repomanager"
)

func main() {
	var (
		secret   = flag.String("s", "secretKey", "HMAC secret shared with the server")
		userID   = flag.String("u", "", "user id the token is issued for")
		role     = flag.String("r", string(common.RoleStudent), "role claim (student|admin)")
		validity = flag.Duration("v", 24*time.Hour, "token validity")
		dsn      = flag.String("d", "", "PostgreSQL DSN; seeds a user when set")
		email    = flag.String("e", "dev@library.local", "email of the seeded user")
		name     = flag.String("n", "Dev Reader", "full name of the seeded user")
		days     = flag.Int("days", 30, "subscription length of the seeded user")
	)
	flag.Parse()

	r := common.Role(*role)
	if !r.Valid() {
		log.Fatalf("invalid role %q", *role)
	}

	ctx := context.Background()

	if *dsn != "" {
		id, err := seedUser(ctx, *dsn, &models.User{
			Email:    *email,
			FullName: *name,
			Role:     r,
		}, *days)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "seeded user %s\n", id)
		*userID = id
	}

	if *userID == "" {
		log.Fatal("either -u or -d is required")
	}

	token, err := auth.GenerateToken(*userID, r, []byte(*secret), *validity)
	if err != nil {
		log.Fatalf("token: %v", err)
	}
	fmt.Println(token)
}

func seedUser(ctx context.Context, dsn string, u *models.User, days int) (string, error) {
	db, err := repomanager.OpenPostgres(ctx, dsn)
	if err != nil {
		return "", err
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return "", err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return "", fmt.Errorf("migrations: %w", err)
	}

	end := time.Now().UTC().AddDate(0, 0, days)
	u.Status = models.StatusVerified
	u.SubscriptionEnd = &end
	u.SubscriptionStatus = models.SubscriptionActive

	created, err := rm.Users(db).Create(ctx, u)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
