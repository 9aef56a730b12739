// Package main provides the report checker for exported markdown reports.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"hexnews/internal/formatter"
	"hexnews/internal/validator"
	"hexnews/pkg/metadata"
)

func main() {
	targetPath := flag.String("path", ".", "Path to a report file or a directory of reports")
	write := flag.Bool("write", false, "Re-align tables and re-sign valid reports (default: false, dry-run)")
	verbose := flag.Bool("v", false, "Print warnings for valid reports too")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	fmt.Printf("📂 Scanning path: %s\n", *targetPath)

	if *write {
		fmt.Println("✍️  Write mode ENABLED (files will be modified)")
	} else {
		fmt.Println("👀 Dry-run mode (no changes will be written)")
	}

	fmt.Println()

	var count, changed, invalid int

	err := filepath.WalkDir(*targetPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("❌ Error accessing path %s: %v\n", path, err)

			invalid++

			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		count++

		wasChanged, ok, procErr := processFile(path, *write, *verbose)

		switch {
		case procErr != nil:
			fmt.Printf("❌ Failed to process %s: %v\n", path, procErr)

			invalid++
		case !ok:
			invalid++
		case wasChanged && *write:
			changed++

			fmt.Printf("✅ Aligned & re-signed: %s\n", path)
		case wasChanged:
			changed++

			fmt.Printf("📝 Would align & re-sign: %s\n", path)
		}

		return nil
	})
	if err != nil {
		log.Fatalf("❌ Error walking path: %v\n", err)
	}

	fmt.Println("\n----------------------------------------------------------------")
	fmt.Printf("📈 Summary:\n")
	fmt.Printf("  Scanned: %d files\n", count)
	fmt.Printf("  Changed: %d files\n", changed)
	fmt.Printf("  Invalid: %d\n", invalid)

	if invalid > 0 {
		os.Exit(1)
	}

	if changed > 0 && !*write {
		fmt.Println("\n💡 Run with -write to apply changes.")
		os.Exit(1)
	}
}

// processFile validates one report. A valid report whose tables are out of
// alignment is re-aligned and re-signed under its original metadata.
func processFile(path string, write, verbose bool) (changed, valid bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, false, err
	}

	original := string(content)

	result := validator.ValidateReport(original)
	if !result.IsValid {
		fmt.Printf("%s  %s\n", result, path)
		result.PrintErrors(os.Stdout)
		result.PrintWarnings(os.Stdout)

		return false, false, nil
	}

	if verbose {
		fmt.Printf("%s  %s\n", result, path)
		result.PrintWarnings(os.Stdout)
	}

	meta, clean := metadata.Extract(original)
	if meta == nil {
		// Unsigned documents are left as they are.
		return false, true, nil
	}

	aligned := formatter.AlignTables(clean)
	if aligned == clean {
		return false, true, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(metadata.Sign(aligned, *meta)), 0o644); err != nil {
			return false, true, err
		}
	}

	return true, true, nil
}

func printUsage() {
	fmt.Println("Usage: ./bin/formatter [OPTIONS]")
	fmt.Println()
	fmt.Println("Checks markdown reports exported by the news explorer: signature,")
	fmt.Println("title and summary table. With -write, misaligned tables are fixed")
	fmt.Println("and the report is re-signed.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/formatter -path reports")
	fmt.Println("  ./bin/formatter -path news-report.md -write")
}
