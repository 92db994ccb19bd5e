//go:build ignore

// build.go - gxkit build system
// Usage: go run build.go [-target=TARGET]
// Targets: all, gxtable, gxdocs, test, clean, docs

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

var (
	rootDir string
	distDir string

	executables = []string{"gxtable", "gxdocs"}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Race    bool
}

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s, run from the module root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	race := flag.Bool("race", true, "Run tests with the race detector")
	flag.Parse()

	printHeader()
	startTime := time.Now()
	ctx := &BuildContext{Verbose: *verbose, Race: *race}

	var err error
	switch *target {
	case "all":
		err = buildAll(ctx)
	case "gxtable", "gxdocs":
		err = buildExecutable(*target, ctx)
	case "test":
		err = runTests(ctx)
	case "clean":
		err = clean()
	case "docs":
		err = generateDocs(ctx)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "          gxkit - Build System             " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

func buildAll(ctx *BuildContext) error {
	printInfo("Building all executables...")
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("failed to create dist directory: %w", err)
	}
	for _, name := range executables {
		if err := buildExecutable(name, ctx); err != nil {
			return err
		}
	}
	return nil
}

func buildExecutable(name string, ctx *BuildContext) error {
	printInfo(fmt.Sprintf("Building %s...", name))

	exeName := name
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}

	ldflags := fmt.Sprintf("-s -w -X gxkit/pkg/contracts.BuildTime=%s -X gxkit/pkg/contracts.GitCommit=%s",
		time.Now().Format(time.RFC3339), gitCommit())

	args := []string{"build"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "-ldflags", ldflags, "-o", filepath.Join(distDir, exeName), "./cmd/"+name)

	if err := goCommand(args...); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}
	printSuccess(fmt.Sprintf("Built %s", exeName))
	return nil
}

func runTests(ctx *BuildContext) error {
	printInfo("Running Go tests...")
	args := []string{"test"}
	if ctx.Race {
		args = append(args, "-race")
	}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := goCommand(args...); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	printSuccess("All tests passed")
	return nil
}

// generateDocs builds gxdocs and regenerates the version history page
// from the manifests listed in the default config.
func generateDocs(ctx *BuildContext) error {
	if err := buildExecutable("gxdocs", ctx); err != nil {
		return err
	}
	cmd := exec.Command(filepath.Join(distDir, "gxdocs"))
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func clean() error {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		return fmt.Errorf("failed to clean dist directory: %w", err)
	}
	logs, _ := filepath.Glob(filepath.Join(rootDir, "logs", "*.log"))
	for _, f := range logs {
		if err := os.Remove(f); err != nil {
			printWarning(fmt.Sprintf("Failed to remove %s: %v", f, err))
		}
	}
	printSuccess("Build artifacts cleaned")
	return nil
}

func goCommand(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-race=false]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all      Build gxtable and gxdocs into dist/")
	fmt.Println("  gxtable  Build the table tool")
	fmt.Println("  gxdocs   Build the version history tool")
	fmt.Println("  test     Run all Go tests")
	fmt.Println("  clean    Remove dist/ and log files")
	fmt.Println("  docs     Build gxdocs and regenerate the version history page")
}
