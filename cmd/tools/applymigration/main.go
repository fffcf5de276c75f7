// Command applymigration runs the Up section of every goose migration in a
// directory against DB_DSN. Tables and columns that already exist are skipped.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	errTableExists = 1050
	errDupColumn   = 1060
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding *.sql migrations")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	sort.Strings(files)

	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}
		for _, stmt := range upStatements(string(raw)) {
			if err := db.Exec(stmt).Error; err != nil {
				if alreadyApplied(err) {
					fmt.Printf("skip %s: %v\n", filepath.Base(f), err)
					continue
				}
				log.Fatalf("apply %s: %v", f, err)
			}
		}
		fmt.Println("✓", filepath.Base(f))
	}
}

// upStatements returns the statements between "-- +goose Up" and
// "-- +goose Down", split on semicolons.
func upStatements(src string) []string {
	var (
		inUp bool
		buf  strings.Builder
	)
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "-- +goose Up"):
			inUp = true
			continue
		case strings.HasPrefix(trimmed, "-- +goose Down"):
			inUp = false
			continue
		}
		if inUp && !strings.HasPrefix(trimmed, "--") {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	var out []string
	for _, s := range strings.Split(buf.String(), ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func alreadyApplied(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == errTableExists || me.Number == errDupColumn
}
