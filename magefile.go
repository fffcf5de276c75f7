//go:build mage
// +build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	binDir  = "bin"
	tmpDir  = "tmp"
	appName = "storefront-web"
)

var Default = Dev

// Dev runs the server with hot reload when air is installed.
func Dev() error {
	mg.Deps(Tidy)

	if _, err := exec.LookPath("air"); err == nil {
		fmt.Println("Starting hot-reload with air ...")
		return sh.RunV("air")
	}

	fmt.Println("air not found. Falling back to `go run ./cmd/web`.")
	fmt.Println("Install with: mage Tools")
	return Run()
}

func Run() error {
	fmt.Println("Running (go run) on :8080 ...")
	return sh.RunV("go", "run", "./cmd/web")
}

func Build() error {
	mg.Deps(Tidy)

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}

	out := filepath.Join(binDir, appName+exeSuffix())
	fmt.Println("Building:", out)

	env := map[string]string{"CGO_ENABLED": "0"}
	return sh.RunWithV(env, "go", "build", "-trimpath", "-o", out, "./cmd/web")
}

func Test() error {
	fmt.Println("Testing...")
	return sh.RunV("go", "test", "./...", "-count=1")
}

func TestRace() error {
	fmt.Println("Testing with -race...")
	if runtime.GOOS == "windows" {
		fmt.Println("Note: -race on Windows may be unsupported depending on your Go toolchain.")
	}
	return sh.RunV("go", "test", "./...", "-race", "-count=1")
}

func Fmt() error {
	fmt.Println("Formatting...")
	return sh.RunV("gofmt", "-w", "./cmd", "./internal", "./pkg", "./templates", "./magefile.go")
}

func Lint() error {
	fmt.Println("Linting (golangci-lint)...")
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		return fmt.Errorf("golangci-lint not found. Install with: mage Tools")
	}
	return sh.RunV("golangci-lint", "run", "--timeout=3m", "./...")
}

func Check() error {
	mg.Deps(Fmt, Lint, Test)
	fmt.Println("Check OK.")
	return nil
}

func Tidy() error {
	fmt.Println("Tidying go.mod/go.sum...")
	return sh.RunV("go", "mod", "tidy")
}

func Clean() error {
	fmt.Println("Cleaning...")
	_ = os.RemoveAll(binDir)
	_ = os.RemoveAll(tmpDir)
	return nil
}

// Tools installs air, goose and golangci-lint.
func Tools() error {
	fmt.Println("Installing tools (air, goose, golangci-lint)...")

	for _, pkg := range []string{
		"github.com/air-verse/air@latest",
		"github.com/pressly/goose/v3/cmd/goose@latest",
		"github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest",
	} {
		if err := sh.RunV("go", "install", pkg); err != nil {
			return err
		}
	}

	for _, bin := range []string{"air", "goose", "golangci-lint"} {
		if _, err := exec.LookPath(bin); err != nil && !errors.Is(err, exec.ErrNotFound) {
			return err
		}
	}

	fmt.Println("Tools installed. Ensure GOBIN/GOPATH/bin is in PATH.")
	return nil
}

// Migrate creates the selection table for STORAGE_DRIVER=mysql. It uses
// goose when available and the bundled applymigration tool otherwise.
func Migrate() error {
	if _, err := exec.LookPath("goose"); err == nil {
		return MigrateUp()
	}
	return sh.RunV("go", "run", "./cmd/tools/applymigration", "-dir", "./migrations")
}

func MigrateUp() error {
	return sh.RunV("goose", "-dir", "./migrations", "mysql", os.Getenv("DB_DSN"), "up")
}

func MigrateDown() error {
	return sh.RunV("goose", "-dir", "./migrations", "mysql", os.Getenv("DB_DSN"), "down")
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
