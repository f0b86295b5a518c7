// CLI tool to create a user with a bcrypt-hashed password and an empty profile.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lg/nutrition-plan-go-api/internal/config"
	"lg/nutrition-plan-go-api/internal/logger"
)

type newUser struct {
	Username string
	Email    string
	Password string
}

// prompt reads the three answers from r, writing each label to w.
func prompt(r io.Reader, w io.Writer) newUser {
	reader := bufio.NewReader(r)
	ask := func(label string) string {
		fmt.Fprintf(w, "%s: ", label)
		answer, _ := reader.ReadString('\n')
		return strings.TrimSpace(answer)
	}
	return newUser{
		Username: ask("Username"),
		Email:    ask("Email"),
		Password: ask("Password"),
	}
}

// createUser inserts the user and its profile row in one transaction and
// returns the new id and auth token.
func createUser(ctx context.Context, conn *pgx.Conn, u newUser) (int, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, "", fmt.Errorf("could not hash password: %w", err)
	}
	authToken := uuid.New().String()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password, auth_token)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, string(hash), authToken,
	).Scan(&userID)
	if err != nil {
		return 0, "", fmt.Errorf("could not create user: %w", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1)`, userID); err != nil {
		return 0, "", fmt.Errorf("could not create profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, "", err
	}
	return userID, authToken, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load config: ", err)
	}
	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal(ctx, "unable to connect to database", zap.Error(err))
	}
	defer conn.Close(ctx)

	u := prompt(os.Stdin, os.Stdout)
	if u.Username == "" || u.Password == "" {
		logger.Fatal(ctx, "username and password are required")
	}

	userID, authToken, err := createUser(ctx, conn, u)
	if err != nil {
		logger.Fatal(ctx, "could not create user", zap.Error(err))
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:         %d\n", userID)
	fmt.Printf("  Username:   %s\n", u.Username)
	fmt.Printf("  Auth Token: %s\n", authToken)
}
