// Command migrate applies the schema migrations under migrations/ against
// the database named by DATABASE_URL.
//
// Usage:
//
//	migrate [-path dir] up
//	migrate [-path dir] down
//	migrate [-path dir] steps <n>
//	migrate [-path dir] version
//	migrate [-path dir] force <version>
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/vaultexam/vaultexam-backend/internal/config"
)

func main() {
	var dir string
	flag.StringVar(&dir, "path", "migrations", "directory holding the migration files")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	m, err := migrate.New("file://"+dir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "up":
		report(m.Up(), "schema is up to date")
	case "down":
		report(m.Down(), "schema rolled all the way back")
	case "steps":
		n := parseInt(args, "steps expects a step count")
		report(m.Steps(n), fmt.Sprintf("moved %d step(s)", n))
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("read version: %v", err)
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
	case "force":
		v := parseInt(args, "force expects a version")
		if err := m.Force(v); err != nil {
			log.Fatalf("force: %v", err)
		}
		fmt.Printf("forced version to %d\n", v)
	default:
		usage()
		os.Exit(2)
	}
}

func report(err error, done string) {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migrate: %v", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("no change")
		return
	}
	fmt.Println(done)
}

func parseInt(args []string, msg string) int {
	if len(args) < 2 {
		log.Fatal(msg)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("%s: %v", msg, err)
	}
	return n
}

func usage() {
	fmt.Println("usage: migrate [-path dir] <up|down|steps <n>|version|force <version>>")
	flag.PrintDefaults()
}
